package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"gcmn-library-backend/internal/config"
	infraCache "gcmn-library-backend/internal/infrastructure/cache"
	"gcmn-library-backend/internal/infrastructure/database"
	"gcmn-library-backend/internal/infrastructure/email"
	"gcmn-library-backend/internal/infrastructure/queue"
	"gcmn-library-backend/internal/infrastructure/session"
	"gcmn-library-backend/internal/infrastructure/storage"
	"gcmn-library-backend/pkg/cache"
	"gcmn-library-backend/pkg/token"

	bookHandler "gcmn-library-backend/internal/domains/book/handler"
	bookRepo "gcmn-library-backend/internal/domains/book/repository"
	bookService "gcmn-library-backend/internal/domains/book/service"
	borrowHandler "gcmn-library-backend/internal/domains/borrow/handler"
	borrowRepo "gcmn-library-backend/internal/domains/borrow/repository"
	borrowService "gcmn-library-backend/internal/domains/borrow/service"
	donationHandler "gcmn-library-backend/internal/domains/donation/handler"
	donationRepo "gcmn-library-backend/internal/domains/donation/repository"
	donationService "gcmn-library-backend/internal/domains/donation/service"
	eventHandler "gcmn-library-backend/internal/domains/event/handler"
	eventRepo "gcmn-library-backend/internal/domains/event/repository"
	eventService "gcmn-library-backend/internal/domains/event/service"
	identityHandler "gcmn-library-backend/internal/domains/identity/handler"
	identityRepo "gcmn-library-backend/internal/domains/identity/repository"
	identityService "gcmn-library-backend/internal/domains/identity/service"
	cardHandler "gcmn-library-backend/internal/domains/librarycard/handler"
	cardRepo "gcmn-library-backend/internal/domains/librarycard/repository"
	cardService "gcmn-library-backend/internal/domains/librarycard/service"
	messageHandler "gcmn-library-backend/internal/domains/message/handler"
	messageRepo "gcmn-library-backend/internal/domains/message/repository"
	messageService "gcmn-library-backend/internal/domains/message/service"
	noteHandler "gcmn-library-backend/internal/domains/note/handler"
	noteRepo "gcmn-library-backend/internal/domains/note/repository"
	noteService "gcmn-library-backend/internal/domains/note/service"
	rarebookHandler "gcmn-library-backend/internal/domains/rarebook/handler"
	rarebookRepo "gcmn-library-backend/internal/domains/rarebook/repository"
	rarebookService "gcmn-library-backend/internal/domains/rarebook/service"
	reportHandler "gcmn-library-backend/internal/domains/report/handler"
	reportRepo "gcmn-library-backend/internal/domains/report/repository"
	reportService "gcmn-library-backend/internal/domains/report/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup.
type Container struct {
	// Infrastructure
	Config       *config.Config
	DB           *database.PostgresDB
	Cache        cache.Cache
	Sessions     session.Store
	Storage      storage.ObjectStorage
	Email        email.EmailService
	Queue        queue.Client
	TokenManager *token.Manager

	// Repositories
	IdentityRepo identityRepo.RepositoryInterface
	CardRepo     cardRepo.RepositoryInterface
	BookRepo     bookRepo.RepositoryInterface
	BorrowRepo   borrowRepo.RepositoryInterface
	MessageRepo  messageRepo.RepositoryInterface
	DonationRepo donationRepo.RepositoryInterface
	NoteRepo     noteRepo.RepositoryInterface
	RareBookRepo rarebookRepo.RepositoryInterface
	EventRepo    eventRepo.RepositoryInterface
	ReportRepo   reportRepo.RepositoryInterface

	// Services
	IdentityService identityService.ServiceInterface
	CardService     cardService.ServiceInterface
	BookService     bookService.ServiceInterface
	BorrowService   borrowService.ServiceInterface
	MessageService  messageService.ServiceInterface
	DonationService donationService.ServiceInterface
	NoteService     noteService.ServiceInterface
	RareBookService rarebookService.ServiceInterface
	EventService    eventService.ServiceInterface
	ReportService   reportService.ServiceInterface

	// Handlers
	IdentityHandler *identityHandler.IdentityHandler
	CardHandler     *cardHandler.CardHandler
	BookHandler     *bookHandler.BookHandler
	BorrowHandler   *borrowHandler.BorrowHandler
	MessageHandler  *messageHandler.MessageHandler
	DonationHandler *donationHandler.DonationHandler
	NoteHandler     *noteHandler.NoteHandler
	RareBookHandler *rarebookHandler.RareBookHandler
	EventHandler    *eventHandler.EventHandler
	ReportHandler   *reportHandler.ReportHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer builds the whole graph in dependency order:
// config -> infrastructure -> repositories -> services -> handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// STEP 1: configuration
	log.Println("📋 Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// STEP 2: PostgreSQL
	log.Println("🗄️  Connecting to PostgreSQL...")
	db := database.NewPostgresDB(cfg.Database)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	log.Println("✅ PostgreSQL connected")

	// STEP 3: Redis (cache + sessions)
	log.Println("🔴 Connecting to Redis...")
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Cache = redisCache
	c.Sessions = session.NewRedisStore(redisCache.Client(), time.Duration(cfg.Session.TTLHours)*time.Hour)
	log.Println("✅ Redis connected")

	// STEP 4: object storage
	log.Println("📦 Connecting to MinIO...")
	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio: %w", err)
	}
	c.Storage = minioStorage
	log.Println("✅ MinIO connected")

	// STEP 5: email + task queue + stream tokens
	c.Email = email.NewSMTPEmailService(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.From)
	c.Queue = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	c.TokenManager = token.NewManager(cfg.Stream.Secret, time.Duration(cfg.Stream.TTLMinutes)*time.Minute)

	// STEP 6: repositories
	log.Println("💾 Initializing repositories...")
	c.IdentityRepo = identityRepo.NewPostgresRepository(db.Pool)
	c.CardRepo = cardRepo.NewPostgresRepository(db.Pool)
	c.BookRepo = bookRepo.NewPostgresRepository(db.Pool)
	c.BorrowRepo = borrowRepo.NewPostgresRepository(db.Pool)
	c.MessageRepo = messageRepo.NewPostgresRepository(db.Pool)
	c.DonationRepo = donationRepo.NewPostgresRepository(db.Pool)
	c.NoteRepo = noteRepo.NewPostgresRepository(db.Pool)
	c.RareBookRepo = rarebookRepo.NewPostgresRepository(db.Pool)
	c.EventRepo = eventRepo.NewPostgresRepository(db.Pool)
	c.ReportRepo = reportRepo.NewPostgresRepository(db.Pool)

	// STEP 7: services
	log.Println("⚙️  Initializing services...")
	c.IdentityService = identityService.NewIdentityService(c.IdentityRepo, c.CardRepo, c.Sessions, cfg.Admin)
	c.CardService = cardService.NewCardService(c.CardRepo, c.Queue)
	c.BookService = bookService.NewBookService(c.BookRepo, c.Storage)
	c.BorrowService = borrowService.NewBorrowService(c.BorrowRepo, c.BookRepo, c.IdentityRepo, c.CardRepo, c.Queue, cfg.Admin)
	c.MessageService = messageService.NewMessageService(c.MessageRepo)
	c.DonationService = donationService.NewDonationService(c.DonationRepo)
	c.NoteService = noteService.NewNoteService(c.NoteRepo, c.Storage)
	c.RareBookService = rarebookService.NewRareBookService(c.RareBookRepo, c.Storage, c.TokenManager, time.Duration(cfg.Stream.TTLMinutes)*time.Minute)
	c.EventService = eventService.NewEventService(c.EventRepo, c.Storage)
	c.ReportService = reportService.NewReportService(c.ReportRepo, c.BorrowRepo)

	// STEP 8: handlers
	log.Println("🌐 Initializing handlers...")
	c.IdentityHandler = identityHandler.NewIdentityHandler(c.IdentityService, cfg.Session, cfg.App.Environment)
	c.CardHandler = cardHandler.NewCardHandler(c.CardService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.BorrowHandler = borrowHandler.NewBorrowHandler(c.BorrowService)
	c.MessageHandler = messageHandler.NewMessageHandler(c.MessageService)
	c.DonationHandler = donationHandler.NewDonationHandler(c.DonationService)
	c.NoteHandler = noteHandler.NewNoteHandler(c.NoteService)
	c.RareBookHandler = rarebookHandler.NewRareBookHandler(c.RareBookService)
	c.EventHandler = eventHandler.NewEventHandler(c.EventService)
	c.ReportHandler = reportHandler.NewReportHandler(c.ReportService)

	log.Println("✅ DI Container initialized successfully")
	return c, nil
}

// Close releases every long-lived connection the container owns.
func (c *Container) Close() {
	if c.Queue != nil {
		_ = c.Queue.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Println("👋 Container closed")
}
