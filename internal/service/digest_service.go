package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"task-management/internal/model"
	"task-management/internal/repository"
)

const dueSoonWindow = 48 * time.Hour

// DigestEntry is one pending task with its due-date status relative to now.
type DigestEntry struct {
	Task    model.Task
	Overdue bool
	DueSoon bool
}

// PersonaDigest groups the pending tasks of one persona.
type PersonaDigest struct {
	Persona model.Persona
	Entries []DigestEntry
}

// DigestService builds human-readable summaries of pending tasks.
type DigestService struct {
	taskRepo *repository.TaskRepository
}

func NewDigestService(taskRepo *repository.TaskRepository) *DigestService {
	return &DigestService{taskRepo: taskRepo}
}

// Pending groups every not-done task by persona, personas sorted by name.
func (s *DigestService) Pending(ctx context.Context, now time.Time) ([]PersonaDigest, error) {
	tasks, err := s.taskRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	byPersona := make(map[uint]*PersonaDigest)
	for _, task := range tasks {
		group, ok := byPersona[task.PersonaID]
		if !ok {
			group = &PersonaDigest{}
			if task.Persona != nil {
				group.Persona = *task.Persona
			} else {
				group.Persona = model.Persona{ID: task.PersonaID}
			}
			byPersona[task.PersonaID] = group
		}
		group.Entries = append(group.Entries, classify(task, now))
	}

	digests := make([]PersonaDigest, 0, len(byPersona))
	for _, group := range byPersona {
		digests = append(digests, *group)
	}
	sort.SliceStable(digests, func(i, j int) bool {
		a, b := digests[i].Persona, digests[j].Persona
		if a.DisplayName() != b.DisplayName() {
			return a.DisplayName() < b.DisplayName()
		}
		return a.ID < b.ID
	})
	return digests, nil
}

// Summary renders Pending as Telegram HTML.
func (s *DigestService) Summary(ctx context.Context, now time.Time) (string, error) {
	digests, err := s.Pending(ctx, now)
	if err != nil {
		return "", err
	}
	return RenderDigest(digests, now), nil
}

func RenderDigest(digests []PersonaDigest, now time.Time) string {
	var builder strings.Builder
	builder.WriteString("📋 <b>Tareas pendientes</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("02.01.2006")))

	if len(digests) == 0 {
		builder.WriteString("\n— no hay tareas pendientes\n")
		return strings.TrimSpace(builder.String())
	}

	for _, digest := range digests {
		builder.WriteString(fmt.Sprintf("\n👤 <b>%s</b>\n", html.EscapeString(digest.Persona.DisplayName())))
		for _, entry := range digest.Entries {
			builder.WriteString(formatEntry(entry, now))
		}
	}
	return strings.TrimSpace(builder.String())
}

func classify(task model.Task, now time.Time) DigestEntry {
	entry := DigestEntry{Task: task}
	if task.DueDate == nil {
		return entry
	}
	today := model.Date(now)
	due := model.Date(*task.DueDate)
	switch {
	case due.Before(today):
		entry.Overdue = true
	case due.Sub(today) <= dueSoonWindow:
		entry.DueSoon = true
	}
	return entry
}

func formatEntry(entry DigestEntry, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	switch {
	case entry.Overdue:
		icon = "⚠️"
	case entry.DueSoon:
		icon = "⏳"
	}

	description := html.EscapeString(strings.TrimSpace(entry.Task.Description))
	sb.WriteString(fmt.Sprintf("%s #%d %s", icon, entry.Task.ID, description))

	if entry.Task.DueDate != nil {
		due := entry.Task.DueDate.Format("2006-01-02")
		if entry.Overdue {
			sb.WriteString(fmt.Sprintf("\n   ⏰ vence %s — <b>vencida</b>", due))
		} else {
			daysLeft := int(model.Date(*entry.Task.DueDate).Sub(model.Date(now)).Hours() / 24)
			sb.WriteString(fmt.Sprintf("\n   ⏰ vence %s · faltan %d días", due, daysLeft))
		}
	}

	sb.WriteByte('\n')
	return sb.String()
}
