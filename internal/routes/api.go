package routes

import (
	"github.com/puviyarasu12/Stream-backend/internal/config"
	"github.com/puviyarasu12/Stream-backend/internal/handlers"
	"github.com/puviyarasu12/Stream-backend/internal/middleware"
	"github.com/puviyarasu12/Stream-backend/internal/services"
	"github.com/puviyarasu12/Stream-backend/internal/websocket"
	"github.com/puviyarasu12/Stream-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, cfg *config.Config, hub *websocket.Hub) {
	db := database.GetDatabase()

	// Initialize services
	roomService := services.NewRoomService(db)
	playbackService := services.NewPlaybackService(roomService, cfg.Playback)
	watchlistService := services.NewWatchlistService(roomService, cfg.Playback)
	messageService := services.NewMessageService(db, roomService)
	triviaService := services.NewTriviaService(db, roomService)
	userService := services.NewUserService(db, cfg.Playback)
	authService := services.NewAuthService(db)
	metadataService := services.NewMetadataService(db, cfg.Metadata)

	// Initialize handlers with dependencies
	roomHandler := handlers.NewRoomHandler(roomService, playbackService, watchlistService, messageService, hub)
	triviaHandler := handlers.NewTriviaHandler(triviaService, hub)
	movieHandler := handlers.NewMovieHandler(metadataService)
	userHandler := handlers.NewUserHandler(userService)
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(hub)

	// Global middleware
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.Server.CORS))
	router.Use(middleware.RateLimit(cfg.Security.RateLimit))

	// Health check
	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no auth required)
		public := v1.Group("/")
		{
			// Global trivia bank read
			public.GET("/trivia", triviaHandler.ListGlobalTrivia)
		}

		// Protected routes (require a valid JWT)
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth())
		{
			// Room lifecycle and membership
			rooms := protected.Group("/rooms")
			{
				rooms.POST("", roomHandler.CreateRoom)
				rooms.GET("", roomHandler.ListRooms)
				rooms.POST("/join", roomHandler.JoinRoom)
				rooms.GET("/random/active", roomHandler.GetRandomRoom)
				rooms.GET("/:id", roomHandler.GetRoom)
				rooms.DELETE("/:id", roomHandler.DeleteRoom)
				rooms.GET("/:id/invite-code", roomHandler.GetInviteCode)
				rooms.PATCH("/:id/settings", roomHandler.UpdateSettings)
				rooms.POST("/:id/ban", roomHandler.BanUser)
				rooms.POST("/:id/unban", roomHandler.UnbanUser)

				// Shared playback state
				rooms.PATCH("/:id/movie", roomHandler.UpdateMovie)

				// Room watchlist and voting
				rooms.POST("/:id/watchlist", roomHandler.AddToWatchlist)
				rooms.POST("/:id/watchlist/:movieId/vote", roomHandler.VoteWatchlist)
				rooms.POST("/:id/watchlist/:movieId/select", roomHandler.SelectFromWatchlist)

				// Chat
				rooms.GET("/:id/messages", roomHandler.ListMessages)
				rooms.POST("/:id/messages", roomHandler.SendMessage)

				// Room trivia
				rooms.GET("/:id/trivia", triviaHandler.ListRoomTrivia)
				rooms.POST("/:id/trivia", triviaHandler.CreateRoomTrivia)
				rooms.POST("/:id/trivia/:triviaId/answer", triviaHandler.AnswerTrivia)
			}

			// Global trivia authoring
			protected.POST("/trivia", triviaHandler.CreateGlobalTrivia)

			// Movie metadata proxy
			movies := protected.Group("/movies")
			{
				movies.GET("/search", movieHandler.SearchMovies)
				movies.GET("/:imdbId", movieHandler.GetMovie)
			}

			// Profile and personal watchlist
			users := protected.Group("/users")
			{
				users.GET("/profile", userHandler.GetProfile)
				users.PUT("/profile", userHandler.UpdateProfile)
				users.GET("/stats", userHandler.GetStats)
				users.GET("/watchlist", userHandler.GetWatchlist)
				users.POST("/watchlist", userHandler.AddToWatchlist)
				users.DELETE("/watchlist/:movieId", userHandler.RemoveFromWatchlist)
				users.POST("/watchlist/:movieId/vote", userHandler.VoteWatchlist)
				users.POST("/watchlist/:movieId/select", userHandler.SelectFromWatchlist)
			}
		}
	}

	// Authentication routes
	SetupAuthRoutes(router, authHandler, cfg.Security.RateLimit)

	// WebSocket relay
	SetupWebSocketRoutes(router, hub, cfg.Server.WebSocket)
}
