package cli

import (
	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	doneMark = color.New(color.FgGreen).Sprint("[x]")
	openMark = color.New(color.FgYellow).Sprint("[ ]")
	dimText  = color.New(color.Faint).SprintFunc()
)
