package deps

import (
	"time"

	"linkdigest/internal/channel"
	"linkdigest/internal/digest"
	"linkdigest/internal/feedcache"
	"linkdigest/internal/logger"
)

// Deps carries everything route handlers need. Built once in app.New
// and passed through route registration.
type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	TimeNow   func() time.Time // injectable for tests, defaults to time.Now

	// Configuration summary served by the status endpoint.
	Method     channel.Method
	Frequency  string
	Count      int
	Timezone   string
	TimeToSend string
	ListScoped bool
	FeedURL    string

	// Dispatch collaborators.
	Service *digest.Service
	Channel channel.Channel
	Cache   *feedcache.Cache

	// DispatchTimeout bounds HTTP-triggered dispatch runs so a slow
	// upstream cannot hold a request forever.
	DispatchTimeout time.Duration
}
