package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	cfg Config
	db  *gorm.DB

	userStore    *UserStore
	sessionStore *SessionStore
	tokenCodec   *TokenCodec
	sessionSvc   *SessionService
)

func main() {
	cfg = loadConfig()

	// Support a lightweight migrate command: `./sosmed_app migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	initDB()
	if err := initAuth(); err != nil {
		log.Fatal(err)
	}

	r := gin.Default()

	setupRoutes(r)

	r.Run(cfg.Addr)
}

// initAuth wires the auth subsystem from the loaded config. Secrets and TTLs
// come in through the TokenConfig; nothing reads them from the environment
// after this point.
func initAuth() error {
	codec, err := NewTokenCodec(cfg.Token)
	if err != nil {
		return err
	}
	tokenCodec = codec
	userStore = NewUserStore(db)
	sessionStore = NewSessionStore(db)
	sessionSvc = NewSessionService(userStore, sessionStore, tokenCodec)
	return nil
}
