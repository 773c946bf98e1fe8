package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lazygardenertx/gardenlog/internal/adminservice"
	"github.com/lazygardenertx/gardenlog/internal/common"
	"github.com/lazygardenertx/gardenlog/internal/mailservice"
	"github.com/lazygardenertx/gardenlog/internal/postservice"
	"github.com/lazygardenertx/gardenlog/internal/videoservice"
)

type application struct {
	config       *Config
	logger       *slog.Logger
	postService  *postservice.PostService
	adminService *adminservice.AdminService
	videoService *videoservice.VideoService
	mailService  *mailservice.MailService
	broker       *common.MessageBroker
}

func main() {
	// Initialize the logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load the configuration
	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the database
	db, err := common.NewDB(cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	// Initialize the message broker
	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	// Setup the exchange, queue, and binding key
	err = common.SetupPostExchange(broker)
	if err != nil {
		logger.Error("failed to setup the post exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	// Initialize the services
	app := &application{
		config:       cfg,
		logger:       logger,
		postService:  postservice.NewPostService(db, broker),
		adminService: adminservice.NewAdminService(db, cache),
		videoService: videoservice.NewVideoService(cache, logger, cfg.YouTube.APIKey, cfg.YouTube.ChannelID),
		broker:       broker,
		mailService:  mailservice.NewMailService(broker, cfg.Mail.Host, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.Sender, cfg.Mail.Recipient, cfg.Mail.Port, logger),
	}

	// Bootstrap the admin account from configuration
	if cfg.Admin.Email != "" {
		err = app.adminService.EnsureAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			logger.Error("failed to create the admin account", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Initialize the consumer
	go app.mailService.SendPublishNotification()
	defer app.mailService.Close()

	// Start the HTTP server
	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
