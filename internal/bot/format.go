package bot

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-management/internal/model"
)

func parseTaskID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return uint(id), nil
}

// parsePage reads a 1-based page argument and returns the 0-based index.
func parsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page %q", raw)
	}
	return n - 1, nil
}

func personaLabel(p model.Persona) string {
	return fmt.Sprintf("%s (#%d)", p.DisplayName(), p.ID)
}

// parsePersonaChoice extracts the id from a label built by personaLabel.
func parsePersonaChoice(text string) (uint, bool) {
	start := strings.LastIndex(text, "(#")
	if start < 0 || !strings.HasSuffix(text, ")") {
		return 0, false
	}
	id, err := strconv.ParseUint(text[start+2:len(text)-1], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func formatPersonaPage(personas []model.Persona, page int) string {
	if len(personas) == 0 {
		return "📭 No hay personas en esta página."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 <b>Personas</b> · página %d\n", page+1))
	for _, p := range personas {
		sb.WriteString(fmt.Sprintf("• #%d %s · DNI %d", p.ID, html.EscapeString(p.DisplayName()), p.DNI))
		if p.Edad != nil {
			sb.WriteString(fmt.Sprintf(" · %d años", *p.Edad))
		}
		sb.WriteByte('\n')
	}
	return strings.TrimSpace(sb.String())
}

func formatTaskPage(tasks []model.Task, page int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 <b>Tareas</b> · página %d\n\n", page+1))
	for _, task := range tasks {
		sb.WriteString(formatTask(task))
		sb.WriteByte('\n')
	}
	return strings.TrimSpace(sb.String())
}

func formatTask(task model.Task) string {
	var sb strings.Builder
	icon := "⬜"
	if task.Done {
		icon = "✅"
	}
	sb.WriteString(fmt.Sprintf("%s #%d %s", icon, task.ID, html.EscapeString(task.Description)))
	if task.Persona != nil {
		sb.WriteString(fmt.Sprintf("\n   👤 %s", html.EscapeString(task.Persona.DisplayName())))
	}
	due := "nunca"
	if task.DueDate != nil {
		due = task.DueDate.Format(dateLayout)
	}
	sb.WriteString(fmt.Sprintf("\n   ⏰ vence: %s", due))
	sb.WriteString(fmt.Sprintf("\n   🕒 creada: %s\n", task.CreationDate.Local().Format("2006-01-02 15:04")))
	return sb.String()
}

func taskKeyboard(tasks []model.Task) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(tasks))
	for _, task := range tasks {
		id := strconv.FormatUint(uint64(task.ID), 10)
		toggle := "✅ #" + id
		if task.Done {
			toggle = "↩️ #" + id
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggle, cbTogglePrefix+id),
			tgbotapi.NewInlineKeyboardButtonData("🗑 #"+id, cbDeletePrefix+id),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func personaKeyboard(personas []model.Persona) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(personas)+1)
	for _, p := range personas {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(personaLabel(p))))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.OneTimeKeyboard = true
	kb.ResizeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	return kb
}
