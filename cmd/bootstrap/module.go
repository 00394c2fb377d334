package bootstrap

import (
	"parkpass/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	components.PersistenceModule,
	components.IntegrationModule,
	components.UseCaseModule,
	components.LiveModule,
	components.HandlerModule,
)
