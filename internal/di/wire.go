//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"GoConvo/internal/chat/handler"
	"GoConvo/internal/chat/service"
)

// InitializeApplication assembles the whole process: config, crypto
// codec, the selected storage backend, live-view plumbing, services and
// the HTTP handler. Wire generates the real body in wire_gen.go.
func InitializeApplication() (*Application, error) {
	wire.Build(
		ProvideConfig,
		ProvideCodec,
		ProvideStore,
		ProvideBuilder,
		ProvidePoller,
		ProvideUserService,
		ProvideIdentityResolver,
		service.NewChatService,
		handler.NewChatHandler,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
