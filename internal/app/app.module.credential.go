package app

import (
	"github.com/joshuarp/passhash/internal/services"
	"go.uber.org/fx"
)

// CredentialModule wires the credential service to the host's store.
func CredentialModule(repository services.CredentialRepository) fx.Option {
	return fx.Module("credential",
		fx.Provide(
			func() services.CredentialRepository { return repository },
			services.NewCredentialService,
		),
	)
}
