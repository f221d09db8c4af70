package wsserver

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ssgier/momonc-service/internal/fsm"
)

// NewRouter builds the gin.Engine exposing the service's external
// interface: GET /ws upgrades to the duplex websocket transport, GET
// /healthz is a liveness probe. Release mode, stderr-routed logging,
// gin.RecoveryWithWriter, and cors.Default() as blanket middleware.
func NewRouter(controller *fsm.Controller) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = os.Stderr
	gin.DefaultErrorWriter = os.Stderr

	router := gin.New()
	router.Use(gin.RecoveryWithWriter(os.Stderr))
	router.Use(cors.Default())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ws", func(c *gin.Context) {
		cli, err := newClient(controller, c.Writer, c.Request)
		if err != nil {
			log.Error().Err(err).Msg("wsserver: websocket upgrade failed")
			return
		}
		if err := cli.Sync(); err != nil {
			log.Info().Err(err).Msg("wsserver: connection closed")
		}
	})

	return router
}
