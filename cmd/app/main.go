package main

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/sushihentaime/nightblog/internal/blogservice"
	"github.com/sushihentaime/nightblog/internal/common"
	"github.com/sushihentaime/nightblog/internal/mailservice"
	"github.com/sushihentaime/nightblog/internal/mediaservice"
	"github.com/sushihentaime/nightblog/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	userService *userservice.UserService
	blogService *blogservice.BlogService
	mailService *mailservice.MailService
	broker      *common.MessageBroker
	// uploads is set when images are stored on local disk and served by this process.
	uploads *mediaservice.DiskStore
	wg      sync.WaitGroup
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dsn := common.DSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	err = common.MigrateDB(dsn)
	if err != nil {
		logger.Error("failed to migrate the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(dsn, 25, 25, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	app := &application{
		config: cfg,
		logger: logger,
	}

	// The broker is optional. Without it no user.created events are published and no
	// welcome emails are sent.
	var producer common.MessageProducer
	if uri := cfg.rabbitMQURI(); uri != "" {
		broker, err := common.NewMessageBroker(uri)
		if err != nil {
			logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer broker.Close()

		err = common.SetupUserExchange(broker)
		if err != nil {
			logger.Error("failed to setup the user exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}

		app.broker = broker
		producer = broker
		app.mailService, err = mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, logger)
		if err != nil {
			logger.Error("failed to initialize the mail service", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		logger.Info("message broker not configured, welcome emails disabled")
	}

	media, err := app.mediaStore()
	if err != nil {
		logger.Error("failed to initialize the media store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	idp := userservice.NewHTTPIdentityProvider(cfg.AuthProviderURL, 10*time.Second)

	app.userService = userservice.NewUserService(db, idp, media, producer, logger)
	app.blogService = blogservice.NewBlogService(db, media)

	if app.mailService != nil {
		err = app.mailService.SendWelcomeEmail()
		if err != nil {
			logger.Error("failed to start the welcome email consumer", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer app.mailService.Close()
	}

	err = app.serve()
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// mediaStore picks Cloudinary when credentials are configured and the local disk otherwise.
func (app *application) mediaStore() (mediaservice.Uploader, error) {
	cfg := app.config

	if cfg.cloudinaryEnabled() {
		app.logger.Info("storing images on cloudinary", slog.String("cloud", cfg.CloudinaryCloudName))
		return mediaservice.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	}

	store, err := mediaservice.NewDiskStore(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		return nil, err
	}

	app.logger.Info("storing images on disk", slog.String("dir", store.Dir()))
	app.uploads = store

	return store, nil
}
