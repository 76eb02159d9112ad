package api

import (
	"net"
	"os"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/olebedev/config"
	"github.com/op/go-logging"
	"github.com/tryanzu/tribunal/modules/acl"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

type MiddlewareAPI struct {
	Exceptions    *exceptions.ExceptionsModule `inject:""`
	ConfigService *config.Config               `inject:""`
	Acl           *acl.Module                  `inject:""`
	Logger        *logging.Logger              `inject:""`
}

func (di *MiddlewareAPI) CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS,PUT,DELETE,PATCH")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "3600")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	}
}

// Authorization resolves the bearer token, when present, into the
// request principal.
func (di *MiddlewareAPI) Authorization() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("Authorization")
		if !strings.HasPrefix(token, "Bearer ") {
			c.Next()
			return
		}
		secret, err := di.ConfigService.String("application.secret")
		if err != nil {
			panic(err)
		}

		signed := strings.TrimSpace(token[len("Bearer "):])
		p, err := di.Acl.Resolve(secret, signed)
		switch err {
		case nil:
		case acl.ErrTokenExpired:
			c.AbortWithStatusJSON(401, gin.H{"status": "error", "message": "Token expired, request new one"})
			return
		default:
			c.AbortWithStatusJSON(401, gin.H{"status": "error", "message": "Error parsing token, will be notified"})
			return
		}

		// Set the token for further usage
		c.Set("token", signed)
		c.Set("user_id", p.ID)
		c.Set("principal", p)
		c.Next()
	}
}

func (di *MiddlewareAPI) NeedAuthorization() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("principal"); !exists {
			c.AbortWithStatusJSON(401, gin.H{"status": "error", "message": "Auth method required"})
			return
		}
		c.Next()
	}
}

func (di *MiddlewareAPI) ErrorTracking(debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rval := recover()
			if rval == nil {
				return
			}
			if err, ok := rval.(*net.OpError); ok {
				if err.Temporary() || err.Err == syscall.EPIPE || strings.Contains(err.Error(), "write: broken pipe") {
					return
				}
			}
			di.Logger.Errorf("[%s %s] %v", c.Request.Method, c.FullPath(), rval)

			// Grab the error and send it to sentry
			if !debug {
				envfile := os.Getenv("ENV_FILE")
				if envfile == "" {
					envfile = "./env.json"
				}
				di.Exceptions.Capture(rval, map[string]string{
					"config_file": envfile,
					"path":        c.FullPath(),
				})
			}

			// Also abort the request with 500
			c.AbortWithStatusJSON(500, gin.H{"status": "error", "message": "Internal server error"})
		}()

		c.Next()
	}
}
