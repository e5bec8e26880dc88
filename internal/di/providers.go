package di

import (
	"context"
	"log"
	"time"

	"GoConvo/internal/chat/handler"
	"GoConvo/internal/config"
	"GoConvo/internal/crypto"
	"GoConvo/internal/dbmongo"
	"GoConvo/internal/dbmysql"
	"GoConvo/internal/store"
	"GoConvo/internal/user"
	"GoConvo/internal/view"
)

// Application bundles everything main needs to run the server.
type Application struct {
	Config  *config.Config
	Store   store.Store
	Handler *handler.ChatHandler
}

func ProvideConfig() *config.Config {
	return config.Load()
}

func ProvideCodec(cfg *config.Config) (*crypto.Codec, error) {
	secret, err := crypto.LoadOrCreateSecret(cfg.Crypto.MasterSecret, cfg.Crypto.KeyFile)
	if err != nil {
		return nil, err
	}
	return crypto.NewCodec(secret, cfg.Crypto.LegacySecret), nil
}

// ProvideStore connects the configured backend. A backend that cannot be
// reached does not abort startup: the process comes up against an
// unavailable store that fails every call with a clear error, so the
// operator sees a serving process plus loud logs instead of a crash loop.
func ProvideStore(cfg *config.Config, codec *crypto.Codec) store.Store {
	switch cfg.Storage.Backend {
	case config.BackendMySQL:
		db, err := dbmysql.NewMySQL(cfg.MySQLDSN())
		if err != nil {
			log.Printf("⚠️ MySQL unavailable, serving in degraded mode: %v", err)
			return store.Unavailable{}
		}
		if err := dbmysql.Migrate(db); err != nil {
			log.Printf("⚠️ MySQL migration failed, serving in degraded mode: %v", err)
			return store.Unavailable{}
		}
		return dbmysql.NewStore(db)
	case config.BackendMongo:
		client, err := dbmongo.NewMongoConnection(cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
		if err != nil {
			log.Printf("⚠️ MongoDB unavailable, serving in degraded mode: %v", err)
			return store.Unavailable{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.EnsureIndexes(ctx); err != nil {
			log.Printf("⚠️ MongoDB index creation failed, serving in degraded mode: %v", err)
			return store.Unavailable{}
		}
		return dbmongo.NewStore(client, codec)
	default:
		log.Printf("⚠️ Unknown backend %q, serving in degraded mode", cfg.Storage.Backend)
		return store.Unavailable{}
	}
}

func ProvideBuilder(codec *crypto.Codec, st store.Store) *view.Builder {
	return view.NewBuilder(codec, st)
}

func ProvidePoller(cfg *config.Config, builder *view.Builder) *view.Poller {
	return view.NewPoller(
		builder,
		time.Duration(cfg.Polling.MessageIntervalSeconds)*time.Second,
		time.Duration(cfg.Polling.ConversationIntervalSeconds)*time.Second,
	)
}

func ProvideUserService(st store.Store) user.UserService {
	return user.NewUserService(st)
}

func ProvideIdentityResolver() handler.IdentityResolver {
	return handler.TrustedHeaderResolver{}
}
