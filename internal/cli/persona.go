package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"task-management/internal/model"
	"task-management/internal/service"
)

func PersonaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "persona",
		Short: "Manage personas",
	}
	cmd.AddCommand(personaListCmd(), personaAddCmd(), personaDeleteCmd())
	return cmd
}

func personaListCmd() *cobra.Command {
	var page, size int
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List personas one page at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(dbPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()
			var personas []model.Persona
			if all {
				personas, err = a.personas.ListAll(ctx)
			} else {
				if size <= 0 {
					size = a.cfg.DefaultPageSize
				}
				personas, err = a.personas.ListPage(ctx, model.PageOf(page, size))
			}
			if err != nil {
				return fmt.Errorf("failed to list personas: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(personas) == 0 {
				fmt.Fprintln(out, "No personas found")
				return nil
			}
			for _, p := range personas {
				edad := dimText("-")
				if p.Edad != nil {
					edad = strconv.Itoa(*p.Edad)
				}
				fmt.Fprintf(out, "%-5d %-10d %-30s %s\n", p.ID, p.DNI, p.DisplayName(), edad)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&size, "size", 0, "page size (defaults to DEFAULT_PAGE_SIZE)")
	cmd.Flags().BoolVar(&all, "all", false, "list every persona, unpaged")
	return cmd
}

func personaAddCmd() *cobra.Command {
	var dni, edad int
	var apellido, nombre string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a persona",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(dbPath)
			if err != nil {
				return err
			}
			defer a.Close()

			input := service.PersonaInput{DNI: dni, Apellido: apellido, Nombre: nombre}
			if cmd.Flags().Changed("edad") {
				input.Edad = &edad
			}
			p, err := a.personas.Create(context.Background(), input)
			if err != nil {
				return fmt.Errorf("failed to create persona: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created persona %d: %s\n", okMark, p.ID, p.DisplayName())
			return nil
		},
	}
	cmd.Flags().IntVar(&dni, "dni", 0, "identity number (required, unique)")
	cmd.Flags().StringVar(&apellido, "apellido", "", "surname (required)")
	cmd.Flags().StringVar(&nombre, "nombre", "", "given name (required)")
	cmd.Flags().IntVar(&edad, "edad", 0, "age")
	return cmd
}

func personaDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a persona that owns no tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(dbPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.personas.Delete(context.Background(), id); err != nil {
				return fmt.Errorf("failed to delete persona: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted persona %d\n", okMark, id)
			return nil
		},
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
