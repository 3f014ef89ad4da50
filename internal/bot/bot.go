package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-management/internal/model"
	"task-management/internal/repository"
	"task-management/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageDescription
	stagePersona
	stageDueDate
)

const (
	cbTogglePrefix  = "toggle:"
	cbDeletePrefix  = "delete:"
	cbConfirmPrefix = "confirm:"
	cbCancelPrefix  = "cancel:"
)

const (
	btnSkip         = "⏭️ Omitir"
	btnCancelDialog = "⏪ Cancelar"
	dateLayout      = "2006-01-02"
)

type conversationState struct {
	stage conversationStage
	input service.TaskInput
}

// Bot is the chat front-end over the persona and task services.
type Bot struct {
	api           *tgbotapi.BotAPI
	subscribers   *repository.SubscriberRepository
	personaSvc    *service.PersonaService
	taskSvc       *service.TaskService
	digestSvc     *service.DigestService
	pageSize      int
	conversations map[int64]*conversationState
	mu            sync.Mutex
}

func New(token string, subscribers *repository.SubscriberRepository, personaSvc *service.PersonaService, taskSvc *service.TaskService, digestSvc *service.DigestService, pageSize int) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	if pageSize <= 0 {
		pageSize = 10
	}
	return &Bot{
		api:           api,
		subscribers:   subscribers,
		personaSvc:    personaSvc,
		taskSvc:       taskSvc,
		digestSvc:     digestSvc,
		pageSize:      pageSize,
		conversations: make(map[int64]*conversationState),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && strings.TrimSpace(msg.Text) == btnCancelDialog {
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Carga de tarea cancelada.")
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if b.getConversation(msg.From.ID) != nil {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "No entendí el mensaje. Usa /newtask para agregar una tarea o /help para ver los comandos.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "stop":
		if err := b.subscribers.DeleteByTelegramID(ctx, msg.Chat.ID); err != nil {
			return err
		}
		return b.sendText(msg.Chat.ID, "🔕 Ya no recibirás resúmenes. Usa /start para volver a suscribirte.")
	case "help":
		return b.sendText(msg.Chat.ID, helpText)
	case "personas":
		return b.handlePersonas(ctx, msg)
	case "tasks":
		return b.handleTasks(ctx, msg)
	case "newtask":
		return b.startNewTask(ctx, msg)
	case "done":
		return b.handleDone(ctx, msg)
	case "delete":
		return b.handleDelete(msg)
	case "report":
		return b.handleReport(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Carga de tarea cancelada.")
	default:
		return b.sendText(msg.Chat.ID, "Comando no soportado. Revisa /help.")
	}
}

const helpText = "ℹ️ <b>Comandos</b>\n" +
	"• /personas [página]: listar personas\n" +
	"• /tasks [página]: listar tareas, más recientes primero\n" +
	"• /newtask: crear una tarea paso a paso\n" +
	"• /done &lt;id&gt;: marcar o desmarcar una tarea\n" +
	"• /delete &lt;id&gt;: eliminar una tarea\n" +
	"• /report: resumen de tareas pendientes\n" +
	"• /stop: dejar de recibir resúmenes\n" +
	"• /cancel: cancelar la carga actual"

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	sub := model.Subscriber{
		TelegramID: msg.Chat.ID,
		FirstName:  msg.From.FirstName,
		LastName:   msg.From.LastName,
		Username:   msg.From.UserName,
	}
	if err := b.subscribers.Subscribe(ctx, &sub); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "hola"
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("👋 %s!\n<b>Te enviaré resúmenes de tareas pendientes.</b>\n\n%s", html.EscapeString(name), helpText))
}

func (b *Bot) handlePersonas(ctx context.Context, msg *tgbotapi.Message) error {
	page, err := parsePage(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "La página debe ser un número, por ejemplo /personas 2")
	}
	personas, err := b.personaSvc.ListPage(ctx, model.PageOf(page, b.pageSize))
	if err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}
	return b.sendText(msg.Chat.ID, formatPersonaPage(personas, page))
}

func (b *Bot) handleTasks(ctx context.Context, msg *tgbotapi.Message) error {
	page, err := parsePage(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "La página debe ser un número, por ejemplo /tasks 2")
	}
	return b.sendTaskPage(ctx, msg.Chat.ID, page)
}

func (b *Bot) sendTaskPage(ctx context.Context, chatID int64, page int) error {
	tasks, err := b.taskSvc.ListPage(ctx, model.PageOf(page, b.pageSize), true)
	if err != nil {
		return b.sendText(chatID, describeError(err))
	}
	if len(tasks) == 0 {
		return b.sendText(chatID, "📭 No hay tareas en esta página.")
	}

	msg := tgbotapi.NewMessage(chatID, formatTaskPage(tasks, page))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = taskKeyboard(tasks)
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) startNewTask(ctx context.Context, msg *tgbotapi.Message) error {
	personas, err := b.personaSvc.ListAll(ctx)
	if err != nil {
		return b.sendText(msg.Chat.ID, describeError(err))
	}
	if len(personas) == 0 {
		return b.sendText(msg.Chat.ID, "Primero hay que cargar al menos una persona.")
	}
	log.Printf("[info] start new task conversation user=%d", msg.From.ID)
	b.setConversation(msg.From.ID, &conversationState{stage: stageDescription})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 Nueva tarea.\n<b>Paso 1:</b> ¿qué hay que hacer?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageDescription:
		if text == "" || len([]rune(text)) > model.DescriptionMaxLength {
			return b.sendText(msg.Chat.ID, fmt.Sprintf("La descripción es obligatoria y admite hasta %d caracteres.", model.DescriptionMaxLength))
		}
		state.input.Description = text
		state.stage = stagePersona
		personas, err := b.personaSvc.ListAll(ctx)
		if err != nil {
			return b.sendText(msg.Chat.ID, describeError(err))
		}
		return b.sendWithReplyMarkup(msg.Chat.ID, "👤 <b>Paso 2:</b> ¿a quién se asigna?", personaKeyboard(personas))
	case stagePersona:
		id, ok := parsePersonaChoice(text)
		if !ok {
			return b.sendText(msg.Chat.ID, "Elige una persona del teclado.")
		}
		state.input.PersonaID = id
		state.stage = stageDueDate
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ <b>Paso 3:</b> fecha de vencimiento <code>2025-02-07</code> (u «Omitir»).", skipKeyboard())
	case stageDueDate:
		if text != btnSkip {
			due, err := time.Parse(dateLayout, text)
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "No reconozco la fecha. Usa el formato <code>2025-02-07</code> u «Omitir».", skipKeyboard())
			}
			state.input.DueDate = &due
		}
		err := b.finishTaskCreation(ctx, msg.Chat.ID, state.input)
		b.clearConversation(msg.From.ID)
		return err
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Diálogo reiniciado. Vuelve a intentar con /newtask.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, chatID int64, input service.TaskInput) error {
	task, err := b.taskSvc.Create(ctx, input)
	if err != nil {
		return b.sendTextWithRemove(chatID, describeError(err))
	}

	log.Printf("[info] task created id=%d persona=%d", task.ID, task.PersonaID)

	if err := b.sendTextWithRemove(chatID, "✅ <b>Tarea agregada</b>\n"+formatTask(*task)); err != nil {
		return err
	}
	return b.sendTaskPage(ctx, chatID, 0)
}

func (b *Bot) handleDone(ctx context.Context, msg *tgbotapi.Message) error {
	id, err := parseTaskID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Indica el ID de la tarea: /done 12")
	}
	return b.toggleTask(ctx, msg.Chat.ID, id)
}

func (b *Bot) toggleTask(ctx context.Context, chatID int64, id uint) error {
	current, err := b.taskSvc.Get(ctx, id)
	if err != nil {
		return b.sendText(chatID, describeError(err))
	}
	task, err := b.taskSvc.SetDone(ctx, id, !current.Done)
	if err != nil {
		return b.sendText(chatID, describeError(err))
	}
	if task.Done {
		return b.sendText(chatID, fmt.Sprintf("✅ Tarea «%s» completada.", html.EscapeString(task.Description)))
	}
	return b.sendText(chatID, fmt.Sprintf("↩️ Tarea «%s» pendiente otra vez.", html.EscapeString(task.Description)))
}

func (b *Bot) handleDelete(msg *tgbotapi.Message) error {
	id, err := parseTaskID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Indica el ID de la tarea: /delete 12")
	}
	return b.askDeleteConfirmation(msg.Chat.ID, id)
}

func (b *Bot) askDeleteConfirmation(chatID int64, id uint) error {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🗑 ¿Eliminar la tarea #%d?", id))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Eliminar", cbConfirmPrefix+strconv.FormatUint(uint64(id), 10)),
		tgbotapi.NewInlineKeyboardButtonData("Cancelar", cbCancelPrefix+strconv.FormatUint(uint64(id), 10)),
	))
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.Message == nil {
		return nil
	}
	chatID := cb.Message.Chat.ID
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("answer callback: %v", err)
	}

	data := cb.Data
	switch {
	case strings.HasPrefix(data, cbTogglePrefix):
		id, err := parseTaskID(strings.TrimPrefix(data, cbTogglePrefix))
		if err != nil {
			return err
		}
		return b.toggleTask(ctx, chatID, id)
	case strings.HasPrefix(data, cbDeletePrefix):
		id, err := parseTaskID(strings.TrimPrefix(data, cbDeletePrefix))
		if err != nil {
			return err
		}
		return b.askDeleteConfirmation(chatID, id)
	case strings.HasPrefix(data, cbConfirmPrefix):
		id, err := parseTaskID(strings.TrimPrefix(data, cbConfirmPrefix))
		if err != nil {
			return err
		}
		if err := b.taskSvc.Delete(ctx, id); err != nil {
			return b.sendText(chatID, describeError(err))
		}
		log.Printf("[info] task deleted id=%d", id)
		return b.sendText(chatID, fmt.Sprintf("🗑 Tarea #%d eliminada.", id))
	case strings.HasPrefix(data, cbCancelPrefix):
		return b.sendText(chatID, "Eliminación cancelada.")
	default:
		return fmt.Errorf("unknown callback %q", data)
	}
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	text, err := b.digestSvc.Summary(ctx, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("No se pudo armar el resumen: %s", html.EscapeString(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

// SendDigests sends the pending-task summary to every subscriber.
func (b *Bot) SendDigests(ctx context.Context) error {
	subs, err := b.subscribers.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}
	text, err := b.digestSvc.Summary(ctx, time.Now())
	if err != nil {
		return err
	}
	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(sub.TelegramID, text); err != nil {
			log.Printf("send digest to %d: %v", sub.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendTextWithRemove(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

// describeError turns service failures into chat replies.
func describeError(err error) string {
	var (
		validation *service.ValidationError
		reference  *service.ReferenceError
		notFound   *service.NotFoundError
		constraint *service.ConstraintViolation
	)
	switch {
	case errors.As(err, &validation):
		return fmt.Sprintf("⚠️ Dato inválido: %s", html.EscapeString(validation.Error()))
	case errors.As(err, &reference):
		return fmt.Sprintf("⚠️ La persona %d no existe.", reference.PersonaID)
	case errors.As(err, &notFound):
		return fmt.Sprintf("🔍 No se encontró %s #%d.", notFound.Entity, notFound.ID)
	case errors.As(err, &constraint):
		return fmt.Sprintf("⛔ Operación rechazada: %s", html.EscapeString(constraint.Error()))
	default:
		return fmt.Sprintf("Error: %s", html.EscapeString(err.Error()))
	}
}
