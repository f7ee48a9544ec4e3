package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
	"github.com/yourusername/fulfil-dashboard-bot/internal/usecase"
)

var errFileTooLarge = errors.New("file too large")

const (
	callbackToggleDocs = "toggle_docs"
	callbackReport     = "report"
	callbackInsights   = "insights"
)

// BotHandler Telegram bot handler
type BotHandler struct {
	bot              *tgbotapi.BotAPI
	authUseCase      usecase.AuthUseCase
	dashboardUseCase usecase.DashboardUseCase
	insightUseCase   usecase.InsightUseCase
	title            string
	maxUploadBytes   int64
	topDepartments   int

	// Parol kutilayotgan userlar
	awaitingPassword map[int64]bool
	mu               sync.RWMutex
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(
	token string,
	title string,
	maxUploadBytes int64,
	topDepartments int,
	authUseCase usecase.AuthUseCase,
	dashboardUseCase usecase.DashboardUseCase,
	insightUseCase usecase.InsightUseCase,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &BotHandler{
		bot:              bot,
		authUseCase:      authUseCase,
		dashboardUseCase: dashboardUseCase,
		insightUseCase:   insightUseCase,
		title:            title,
		maxUploadBytes:   maxUploadBytes,
		topDepartments:   topDepartments,
		awaitingPassword: make(map[int64]bool),
	}, nil
}

// Start botni ishga tushirish
func (h *BotHandler) Start(ctx context.Context) error {
	log.Printf("🤖 Bot @%s ishga tushdi!", h.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			log.Println("Bot to'xtatilmoqda...")
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.CallbackQuery != nil {
				go h.handleCallback(ctx, update.CallbackQuery)
				continue
			}

			if update.Message == nil {
				continue
			}

			go h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}
	userID := message.From.ID

	// Parol kutilayotgan bo'lsa
	if h.isAwaitingPassword(userID) && !message.IsCommand() && message.Document == nil {
		h.handlePasswordInput(ctx, message)
		return
	}

	// Fayl yuborilgan bo'lsa
	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	if message.Text != "" {
		h.sendMessage(message.Chat.ID, "Send the three files as documents, or /help for commands.")
	}
}

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	// Boshqa komanda parol kutishni bekor qiladi
	if message.Command() != "login" {
		h.setAwaitingPassword(message.From.ID, false)
	}

	switch message.Command() {
	case "start":
		h.sendMessage(message.Chat.ID, h.getWelcomeMessage())
	case "help":
		h.sendMessage(message.Chat.ID, getHelpMessage())
	case "login":
		h.handleLoginCommand(ctx, message)
	case "logout":
		h.handleLogoutCommand(ctx, message)
	case "docs":
		h.handleDocsCommand(ctx, message.From.ID, message.Chat.ID)
	case "status":
		h.handleStatusCommand(ctx, message)
	case "dashboard":
		h.handleDashboardCommand(ctx, message.From.ID, message.Chat.ID)
	case "report":
		h.handleReportCommand(ctx, message.From.ID, message.Chat.ID)
	case "insights":
		h.handleInsightsCommand(ctx, message.From.ID, message.Chat.ID)
	case "reset":
		h.handleResetCommand(ctx, message)
	case "history":
		h.handleHistoryCommand(ctx, message)
	default:
		h.sendMessage(message.Chat.ID, "Unknown command. /help for the list.")
	}
}

// handleLoginCommand parol so'rash
func (h *BotHandler) handleLoginCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	authed, _ := h.authUseCase.IsAuthenticated(ctx, userID)
	if authed {
		h.sendMessage(message.Chat.ID, "You are already logged in. Upload files or /status.")
		return
	}

	h.setAwaitingPassword(userID, true)
	h.sendMessage(message.Chat.ID, "🔐 Enter password:")
}

// handlePasswordInput parol kiritilganini qayta ishlash
func (h *BotHandler) handlePasswordInput(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	password := message.Text

	h.setAwaitingPassword(userID, false)

	// Xabarni o'chirish (parol chatda qolmasin)
	deleteMsg := tgbotapi.NewDeleteMessage(message.Chat.ID, message.MessageID)
	if _, err := h.bot.Request(deleteMsg); err != nil {
		log.Printf("Parol xabarini o'chirib bo'lmadi: %v", err)
	}

	success, err := h.authUseCase.Login(ctx, userID, password)
	if err != nil {
		log.Printf("Login error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Login failed, try again.")
		return
	}

	if !success {
		h.sendMessage(message.Chat.ID, "😕 Password incorrect. /login to try again.")
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "✅ Logged in.\n\n"+waitingMessage+"\n\n"+uploadInstructions())
	msg.ReplyMarkup = docsKeyboard()
	h.send(msg)
}

// handleLogoutCommand sessiyani yopish
func (h *BotHandler) handleLogoutCommand(ctx context.Context, message *tgbotapi.Message) {
	if err := h.authUseCase.Logout(ctx, message.From.ID); err != nil {
		log.Printf("Logout error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Logout failed.")
		return
	}
	h.sendMessage(message.Chat.ID, "👋 Logged out. Uploaded files were discarded.")
}

// handleDocsCommand "Show/Hide Documentation"
func (h *BotHandler) handleDocsCommand(ctx context.Context, userID, chatID int64) {
	shown, err := h.authUseCase.ToggleDocs(ctx, userID)
	if err != nil {
		h.sendMessage(chatID, userErrorMessage(err))
		return
	}
	if shown {
		h.sendMessage(chatID, "ℹ️ About\n"+h.authUseCase.Docs())
		return
	}
	h.sendMessage(chatID, "Documentation hidden.")
}

// handleStatusCommand yuklangan fayllar holati
func (h *BotHandler) handleStatusCommand(ctx context.Context, message *tgbotapi.Message) {
	session, err := h.dashboardUseCase.Status(ctx, message.From.ID)
	if err != nil {
		h.sendMessage(message.Chat.ID, userErrorMessage(err))
		return
	}
	h.sendMessage(message.Chat.ID, FormatStatus(session))
}

// handleDashboardCommand oxirgi dashboardni ko'rsatish
func (h *BotHandler) handleDashboardCommand(ctx context.Context, userID, chatID int64) {
	d, err := h.dashboardUseCase.Dashboard(ctx, userID)
	if err != nil {
		h.sendMessage(chatID, userErrorMessage(err))
		return
	}
	h.sendDashboard(ctx, userID, chatID, d)
}

// handleReportCommand XLSX hisobotni yuborish
func (h *BotHandler) handleReportCommand(ctx context.Context, userID, chatID int64) {
	data, filename, err := h.dashboardUseCase.Report(ctx, userID)
	if err != nil {
		log.Printf("Report error: %v", err)
		h.sendMessage(chatID, userErrorMessage(err))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = "📈 " + h.title
	h.send(doc)
}

// handleInsightsCommand Gemini xulosasi
func (h *BotHandler) handleInsightsCommand(ctx context.Context, userID, chatID int64) {
	if _, err := h.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("Chat action xatosi: %v", err)
	}

	summary, err := h.insightUseCase.Summarize(ctx, userID)
	if err != nil {
		log.Printf("Insights error: %v", err)
		h.sendMessage(chatID, userErrorMessage(err))
		return
	}
	h.sendMessage(chatID, "🤖 "+truncateString(summary, maxMessageLen-2))
}

// handleHistoryCommand oxirgi harakatlar (audit log)
func (h *BotHandler) handleHistoryCommand(ctx context.Context, message *tgbotapi.Message) {
	actions, err := h.authUseCase.History(ctx, message.From.ID, historyLimit)
	if err != nil {
		h.sendMessage(message.Chat.ID, userErrorMessage(err))
		return
	}
	h.sendMessage(message.Chat.ID, FormatHistory(actions))
}

// handleResetCommand yuklangan fayllarni tozalash
func (h *BotHandler) handleResetCommand(ctx context.Context, message *tgbotapi.Message) {
	if err := h.dashboardUseCase.Reset(ctx, message.From.ID); err != nil {
		h.sendMessage(message.Chat.ID, userErrorMessage(err))
		return
	}
	h.sendMessage(message.Chat.ID, "🧹 Uploads cleared. "+waitingMessage)
}

// handleDocumentMessage fayl yuborilganda
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	doc := message.Document

	authed, _ := h.authUseCase.IsAuthenticated(ctx, userID)
	if !authed {
		h.sendMessage(message.Chat.ID, userErrorMessage(usecase.ErrNotAuthenticated))
		return
	}

	if h.maxUploadBytes > 0 && int64(doc.FileSize) > h.maxUploadBytes {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ File is larger than %d MB.", h.maxUploadBytes/(1024*1024)))
		return
	}

	if !isSupportedUpload(doc.FileName) {
		h.sendMessage(message.Chat.ID, userErrorMessage(usecase.ErrUnsupportedFile))
		return
	}

	fileBytes, err := h.downloadFile(doc.FileID)
	if errors.Is(err, errFileTooLarge) {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ File is larger than %d MB.", h.maxUploadBytes/(1024*1024)))
		return
	}
	if err != nil {
		log.Printf("File download error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Could not download the file.")
		return
	}

	log.Printf("📥 User %d uploaded %s (%d bytes)", userID, doc.FileName, len(fileBytes))

	result, err := h.dashboardUseCase.Upload(ctx, userID, fileBytes, doc.FileName)
	if err != nil {
		log.Printf("Upload error: %v", err)
		if result != nil {
			h.sendMessage(message.Chat.ID, FormatUploadResult(result))
		}
		h.sendMessage(message.Chat.ID, userErrorMessage(err))
		return
	}

	h.sendMessage(message.Chat.ID, FormatUploadResult(result))
	if result.Dashboard != nil {
		h.sendDashboard(ctx, userID, message.Chat.ID, result.Dashboard)
	}
}

// downloadFile Telegram dan faylni yuklash
func (h *BotHandler) downloadFile(fileID string) ([]byte, error) {
	file, err := h.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}

	fileURL := file.Link(h.bot.Token)
	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}
	return readLimited(resp.Body, h.maxUploadBytes)
}

// readLimited limit dan katta faylni qisman emas, xato bilan qaytaradi (limit<=0 = cheksiz)
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", errFileTooLarge, limit)
	}
	return data, nil
}

// handleCallback inline tugmalar
func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	// Callback ga javob (spinnerni to'xtatish)
	callback := tgbotapi.NewCallback(cq.ID, "")
	if _, err := h.bot.Request(callback); err != nil {
		log.Printf("Callback javobida xatolik: %v", err)
	}

	switch cq.Data {
	case callbackToggleDocs:
		h.handleDocsCommand(ctx, userID, chatID)
	case callbackReport:
		h.handleReportCommand(ctx, userID, chatID)
	case callbackInsights:
		h.handleInsightsCommand(ctx, userID, chatID)
	}
}

// sendDashboard dashboard matni va tugmalar
func (h *BotHandler) sendDashboard(ctx context.Context, userID, chatID int64, d *entity.Dashboard) {
	showDocs := false
	if session, err := h.dashboardUseCase.Status(ctx, userID); err == nil {
		showDocs = session.ShowDocs
	}

	text := "📈 " + h.title + "\n\n" + FormatDashboard(d, showDocs, h.authUseCase.Docs(), h.topDepartments)
	msg := tgbotapi.NewMessage(chatID, truncateString(text, maxMessageLen))
	msg.ReplyMarkup = dashboardKeyboard()
	h.send(msg)
}

// isAwaitingPassword parol kutilayotganini tekshirish
func (h *BotHandler) isAwaitingPassword(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.awaitingPassword[userID]
}

// setAwaitingPassword parol kutish rejimini o'rnatish
func (h *BotHandler) setAwaitingPassword(userID int64, awaiting bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if awaiting {
		h.awaitingPassword[userID] = true
	} else {
		delete(h.awaitingPassword, userID)
	}
}

// sendMessage oddiy xabar yuborish
func (h *BotHandler) sendMessage(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *BotHandler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		log.Printf("Xabar yuborishda xatolik: %v", err)
	}
}

func docsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Show/Hide Documentation", callbackToggleDocs),
		),
	)
}

func dashboardKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📥 XLSX report", callbackReport),
			tgbotapi.NewInlineKeyboardButtonData("🤖 Insights", callbackInsights),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Show/Hide Documentation", callbackToggleDocs),
		),
	)
}

// getWelcomeMessage salom xabari
func (h *BotHandler) getWelcomeMessage() string {
	return fmt.Sprintf(`👋 %s

I turn Fulfil's three exports into a dashboard:
• purchase_lines (PURCHASE_ID, PRODUCT_ID, QUANTITY)
• purchase_header (PURCHASE_ID, PURCHASE_DATE_TIME)
• product (PRODUCT_ID, DEPARTMENT_NAME, HEIGHT/WIDTH/DEPTH_INCHES)

/login to begin, /help for all commands.`, h.title)
}

// getHelpMessage yordam xabari
func getHelpMessage() string {
	return `🤖 Commands:

/start - Welcome
/help - This list
/login - Enter the dashboard password
/logout - Close the session and discard uploads
/docs - Show/Hide documentation
/status - Which files are uploaded
/dashboard - Show the latest dashboard
/report - Download the dashboard as XLSX with charts
/insights - AI summary of the dashboard
/reset - Clear uploaded files
/history - Your recent logins, uploads and runs

Upload files as documents (.csv or .xlsx). A new file replaces the previous file of the same kind.`
}

// GetBotUsername bot username ni olish
func (h *BotHandler) GetBotUsername() string {
	return h.bot.Self.UserName
}
