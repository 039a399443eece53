package providers

import (
	"github.com/samber/do/v2"

	"github.com/estetoscopio/esteto-server/internal/auth"
	"github.com/estetoscopio/esteto-server/internal/config"
	"github.com/estetoscopio/esteto-server/internal/logger"
)

// AuthKey holds the hex-encoded PASETO session key.
type AuthKey string

// ProvideAuthKey loads or generates the session key under the data path.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return "", err
	}

	log.Info("Session key loaded",
		"session_duration", cfg.Auth.SessionDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(string(authKey), cfg.Auth.SessionDuration)
}
