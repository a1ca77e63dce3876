package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ssRohan-32/link-organizer/internal/auth"
	"github.com/ssRohan-32/link-organizer/internal/logger"
	"github.com/ssRohan-32/link-organizer/internal/session"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the server
	AllowedCIDRS []string         // IPs allowed to access healthz/readyz endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	Sessions    *session.Registry // per-user sessions holding the course hierarchy
	Auth        *auth.Service     // nil in local mode
	LocalMode   bool              // true => single local user, auth bypassed
	DataFile    string            // local-mode data file path (informational)
	RedisClient *redis.Client     // nil in local mode
}
