package main

import (
	"log"
	"os/exec"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mp3editor-backend/bridge"
	"mp3editor-backend/config"
	"mp3editor-backend/handlers"
)

func main() {
	cfg := config.FromEnv()

	// The worker does all tag and codec work; nothing useful runs without it.
	if _, err := exec.LookPath(cfg.WorkerBin); err != nil {
		log.Fatalf("mp3worker not found (set MP3EDITOR_WORKER): %v", err)
	}
	log.Printf("✓ mp3worker found and ready")

	// LAME and ffmpeg are only needed for audio processing; warn, don't die.
	if err := checkBinary(cfg.LameBin, "--version"); err != nil {
		log.Printf("warning: LAME encoder not found, audio processing will fail: %v", err)
	}
	if err := checkBinary(cfg.FFmpegBin, "-version"); err != nil {
		log.Printf("warning: ffmpeg not found, pitch/speed changes will fail: %v", err)
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	editor := handlers.NewEditorHandler(bridge.NewRunner(cfg.WorkerBin))

	api := router.Group("/api/v1")
	{
		api.GET("/health", editor.HealthCheck)

		files := api.Group("/files")
		{
			files.POST("", editor.LoadFile)
			files.GET("/:id", editor.GetFile)
			files.PUT("/:id/tags", editor.UpdateTags)
			files.POST("/:id/artwork", editor.SetArtwork)
			files.DELETE("/:id/artwork", editor.DeleteArtwork)
			files.POST("/:id/restore", editor.Restore)
			files.POST("/:id/save", editor.SaveTags)
			files.POST("/:id/audio", editor.UpdateAudio)
			files.POST("/:id/process", editor.ProcessAudio)
			files.DELETE("/:id", editor.ClearFile)
		}
	}

	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("API endpoints:")
	log.Printf("  POST   /api/v1/files              - Load an MP3 and open an edit session")
	log.Printf("  GET    /api/v1/files/:id          - Current session state")
	log.Printf("  PUT    /api/v1/files/:id/tags     - Edit tag fields")
	log.Printf("  POST   /api/v1/files/:id/artwork  - Replace embedded artwork")
	log.Printf("  DELETE /api/v1/files/:id/artwork  - Mark artwork for deletion")
	log.Printf("  POST   /api/v1/files/:id/restore  - Discard pending edits")
	log.Printf("  POST   /api/v1/files/:id/save     - Save tags (copy by default)")
	log.Printf("  POST   /api/v1/files/:id/audio    - Set trim/pitch/speed")
	log.Printf("  POST   /api/v1/files/:id/process  - Run audio processing")
	log.Printf("  DELETE /api/v1/files/:id          - Close the session")
	log.Printf("  GET    /api/v1/health             - Health check")

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// checkBinary verifies that an external tool is installed and accessible.
func checkBinary(bin string, arg string) error {
	cmd := exec.Command(bin, arg)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run()
}
