package common

import (
	"time"

	"github.com/google/uuid"
)

var Version = "v0.0.0" // set at build time via -ldflags
var StartTime = time.Now().Unix()

var SessionSecret = uuid.New().String()
var JWTSecret = uuid.New().String()

// Catalog store selection: memory, sqlite or mysql.
const (
	StoreTypeMemory = "memory"
	StoreTypeSQLite = "sqlite"
	StoreTypeMySQL  = "mysql"
)

var StoreType = StoreTypeMemory
var SQLitePath = "data/archive-hub.db"
var SQLDSN = ""

var UploadPath = "uploads"
var FrontendPath = "web/dist"

// MaxUploadSize is the ceiling for a single uploaded archive, in bytes.
var MaxUploadSize int64 = 50 << 20

// MaxDecodedBodySize caps a gzip-encoded request body after decompression.
// Multipart uploads are capped by MaxUploadSize instead.
var MaxDecodedBodySize int64 = 1 << 20

var AdminUsername = "admin"
var AdminPassword = "admin123"

// TrustedProxies is a comma separated list of proxy IPs or CIDRs whose
// X-Forwarded-For header is believed. Empty trusts no proxy.
var TrustedProxies = ""

var RedisConnString = ""
var RedisEnabled = false

const (
	SessionName   = "session"
	SessionMaxAge = 24 * 60 * 60 // seconds, sliding
	TokenTTL      = 24 * time.Hour
	TokenIssuer   = "archive-hub"
)

// Rate limit for login attempts per client IP.
var (
	CriticalRateLimitNum            = 20
	CriticalRateLimitDuration int64 = 20 * 60
)

const TopFilesLimit = 5
