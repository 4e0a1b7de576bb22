package routes

import (
	"time"

	"tunehub/internal/adapters/http/handlers"
	"tunehub/internal/adapters/http/middleware"
	"tunehub/internal/adapters/persistence/jsonstore"
	"tunehub/internal/adapters/persistence/repositories"
	"tunehub/internal/config"
	"tunehub/internal/core/services"
	"tunehub/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	songRepo := repositories.NewSongRepository(db)
	playlistRepo := repositories.NewPlaylistRepository(db)
	artistRepo := repositories.NewArtistRepository(db)
	albumRepo := repositories.NewAlbumRepository(db)
	videoRepo := repositories.NewVideoRepository(db)

	// File-backed stores
	store := storage.New(cfg.Storage.Root)
	catalog := jsonstore.NewCatalogStore(cfg.Storage.CatalogDB)
	params := jsonstore.NewParamsStore(cfg.Storage.ParamsFile)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg)
	permService := services.NewPermissionService(userRepo)
	userService := services.NewUserService(userRepo)
	songService := services.NewSongService(songRepo, artistRepo, albumRepo, store)
	playlistService := services.NewPlaylistService(playlistRepo)
	albumService := services.NewAlbumService(catalog, store)
	artistService := services.NewArtistService(artistRepo, songRepo, albumRepo, videoRepo)
	videoService := services.NewVideoService(videoRepo, artistRepo, store)
	uploadService := services.NewUploadService(songRepo, artistRepo, albumRepo, store)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	songHandler := handlers.NewSongHandler(songService, permService)
	playlistHandler := handlers.NewPlaylistHandler(playlistService)
	albumHandler := handlers.NewAlbumHandler(albumService, store)
	artistHandler := handlers.NewArtistHandler(artistService)
	videoHandler := handlers.NewVideoHandler(videoService, permService)
	uploadHandler := handlers.NewUploadHandler(uploadService, permService)
	fileHandler := handlers.NewFileHandler(store)
	presentationHandler := handlers.NewPresentationHandler(params)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, songHandler,
		playlistHandler, albumHandler, artistHandler, videoHandler,
		uploadHandler, fileHandler, presentationHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	songHandler *handlers.SongHandler,
	playlistHandler *handlers.PlaylistHandler,
	albumHandler *handlers.AlbumHandler,
	artistHandler *handlers.ArtistHandler,
	videoHandler *handlers.VideoHandler,
	uploadHandler *handlers.UploadHandler,
	fileHandler *handlers.FileHandler,
	presentationHandler *handlers.PresentationHandler,
	cfg *config.Config,
) {
	// API info
	router.Get("/", healthHandler.APIInfo)
	router.Get("/health", healthHandler.HealthCheck)

	// Auth routes (public, stricter rate limits)
	auth := router.Group("/auth")
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", middleware.NoCacheHeaders(), middleware.OptionalAuth(cfg), authHandler.Me)
	auth.Post("/forgot-password", middleware.StrictRateLimiter(), authHandler.ForgotPassword)
	auth.Post("/reset-password", middleware.StrictRateLimiter(), authHandler.ResetPassword)

	// User management routes (admin only)
	users := router.Group("/users", middleware.AuthMiddleware(cfg), middleware.RequireAdmin())
	users.Get("/", userHandler.ListUsers)
	users.Post("/", userHandler.CreateUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)

	// Song routes
	songs := router.Group("/songs")
	songs.Get("/random", songHandler.RandomSongs)
	songs.Post("/batch-delete", middleware.AuthMiddleware(cfg), songHandler.BatchDelete)
	songs.Get("/:id", songHandler.GetSong)
	songs.Put("/:id", middleware.AuthMiddleware(cfg), songHandler.UpdateSong)
	songs.Delete("/:id", middleware.AuthMiddleware(cfg), songHandler.DeleteSong)

	// Playlist routes (visibility depends on who is asking)
	playlists := router.Group("/playlists", middleware.OptionalAuth(cfg))
	playlists.Get("/", playlistHandler.ListPlaylists)
	playlists.Post("/", middleware.AuthMiddleware(cfg), playlistHandler.CreatePlaylist)
	playlists.Get("/:id", playlistHandler.GetPlaylist)
	playlists.Put("/:id", middleware.AuthMiddleware(cfg), playlistHandler.UpdatePlaylist)
	playlists.Delete("/:id", middleware.AuthMiddleware(cfg), playlistHandler.DeletePlaylist)

	// Album routes (legacy catalog operations are admin only)
	albums := router.Group("/albums")
	albums.Get("/:name/cover", middleware.MediaCache(), albumHandler.AlbumCover)
	albums.Put("/:name", middleware.AuthMiddleware(cfg), middleware.RequireAdmin(), albumHandler.RenameAlbum)
	albums.Delete("/:name", middleware.AuthMiddleware(cfg), middleware.RequireAdmin(), albumHandler.DeleteAlbum)

	// Artist routes
	artists := router.Group("/artists")
	artists.Delete("/:id", middleware.AuthMiddleware(cfg), middleware.RequireAdmin(), artistHandler.DeleteArtist)

	// Video routes
	videos := router.Group("/videos")
	videos.Get("/", middleware.PublicCache(5*time.Minute), videoHandler.ListVideos)
	videos.Post("/upload", middleware.AuthMiddleware(cfg), videoHandler.UploadVideo)
	videos.Delete("/:id", middleware.AuthMiddleware(cfg), videoHandler.DeleteVideo)

	// Upload routes
	upload := router.Group("/upload", middleware.AuthMiddleware(cfg))
	upload.Post("/", uploadHandler.UploadSong)
	upload.Post("/image", uploadHandler.UploadImage)

	// Media file serving
	router.Get("/files/*", middleware.MediaCache(), fileHandler.ServeFile)

	// Presentation settings
	presentation := router.Group("/presentation")
	presentation.Get("/params", presentationHandler.GetParams)
	presentation.Post("/params", middleware.AuthMiddleware(cfg), middleware.RequireAdmin(), presentationHandler.UpdateParams)
}
