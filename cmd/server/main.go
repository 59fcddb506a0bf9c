package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/innotter/auth"
	"github.com/goliatone/innotter/config"
	"github.com/goliatone/innotter/content"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("innotter"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := config.LoadConfig()

	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		lgr.GetLogger("db").Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	authCfg := auth.Config{
		SigningKey:      []byte(cfg.SecretKey),
		Issuer:          cfg.Issuer,
		AuthScheme:      cfg.AuthScheme,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}

	users := auth.NewRepositoryManager(db)
	auther := auth.NewAuthenticator(users.Users(), authCfg).
		WithLogger(lgr.GetLogger("auth"))

	authCtrl := auth.NewAuthController(users, auther).
		WithLogger(lgr.GetLogger("auth:ctrl"))

	contentRepo := content.NewRepositoryManager(db)
	contentCtrl := content.NewContentController(contentRepo).
		WithLogger(lgr.GetLogger("content:ctrl"))

	app := fiber.New(fiber.Config{
		AppName:      "innotter",
		ErrorHandler: auth.ErrorHandler,
	})

	gate := auther.Middleware(authCfg)
	authCtrl.RegisterRoutes(app, gate)
	contentCtrl.RegisterRoutes(app, gate)

	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			lgr.GetLogger("http").Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	lgr.GetLogger("http").Info("server started", "addr", cfg.HTTPAddr)

	WaitExitSignal()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		lgr.GetLogger("http").Error("shutdown", "error", err)
	}
}

// openDatabase connects to SQLite through the shim driver and creates
// the schema on first run.
func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	content.RegisterModels(db)

	if err := createSchema(ctx, db); err != nil {
		return nil, err
	}

	return db, nil
}

func createSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*auth.User)(nil),
		(*content.Page)(nil),
		(*content.Post)(nil),
		(*content.Tag)(nil),
		(*content.PageTag)(nil),
		(*content.PageFollower)(nil),
		(*content.PageFollowRequest)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
