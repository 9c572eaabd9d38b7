package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"promostore/internal/adapter/api"
	"promostore/internal/adapter/api/handler"
	apimiddleware "promostore/internal/adapter/api/middleware"
	"promostore/internal/adapter/api/router"
	"promostore/internal/adapter/repository"
	"promostore/internal/infrastructure/firebase"
	"promostore/internal/infrastructure/storage"
	"promostore/internal/infrastructure/websocket"
	"promostore/internal/usecase"
	"promostore/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	opts, credentialsPath := credentialOptions()

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)
	profileRepo := repository.NewFirestoreProfileRepository(firestoreClient)
	serviceRepo := repository.NewFirestoreServiceRepository(firestoreClient)
	cartRepo := repository.NewFirestoreCartRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	contentRepo := repository.NewFirestoreContentRepository(firestoreClient)
	messageFeed := repository.NewFirestoreMessageFeed(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	chatStore := usecase.NewChatStore(messageRepo, profileRepo, storageClient)
	catalogUseCase := usecase.NewCatalogUseCase(serviceRepo)
	cartUseCase := usecase.NewCartUseCase(cartRepo, serviceRepo)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, cartRepo, serviceRepo, chatStore, wsManager)
	profileUseCase := usecase.NewProfileUseCase(profileRepo)
	contentUseCase := usecase.NewContentUseCase(contentRepo)

	var devTokens *firebase.DevTokenGenerator
	if cfg.Environment == "development" {
		devTokens = firebase.NewDevTokenGenerator(cfg.JWTSecret, cfg.JWTExpiry)
	}

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient, devTokens, cfg.Environment)
	adminMiddleware := apimiddleware.NewAdminMiddleware(profileRepo)

	handlers := router.Handlers{
		Service:   handler.NewServiceHandler(catalogUseCase),
		Cart:      handler.NewCartHandler(cartUseCase),
		Order:     handler.NewOrderHandler(orderUseCase),
		Profile:   handler.NewProfileHandler(profileUseCase),
		Content:   handler.NewContentHandler(contentUseCase),
		Chat:      handler.NewChatHandler(chatStore, orderUseCase, profileUseCase),
		WebSocket: handler.NewWebSocketHandler(chatStore, messageFeed, orderUseCase, profileUseCase, authMiddleware, wsManager),
	}
	if devTokens != nil {
		handlers.DevToken = handler.NewDevTokenHandler(devTokens, firebaseAuthClient, profileUseCase)
	}

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.Validator = api.NewValidator()

	router.Setup(e, handlers, authMiddleware, adminMiddleware, cfg.Environment)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

// credentialOptions resolves Google credentials the same way for Firebase,
// Firestore and Cloud Storage: inline JSON wins, then a file path, then
// application default credentials.
func credentialOptions() ([]option.ClientOption, string) {
	if json := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); json != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(json))}, ""
	}

	if path := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); path != "" {
		return []option.ClientOption{option.WithCredentialsFile(path)}, path
	}

	return nil, ""
}
