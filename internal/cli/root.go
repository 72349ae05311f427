package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devspectrum/internal/config"
)

// App mantiene lo que necesita cada subcomando. Tablas y fuentes se cargan por
// comando para que seed funcione sin una fuente CJK en la máquina.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Out    io.Writer
}

// NewRootCmd crea el comando raíz "devspectrum" y registra los subcomandos
// contra el App recibido.
func NewRootCmd(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}
	if app.Logger == nil {
		app.Logger = zap.NewNop()
	}

	root := &cobra.Command{
		Use:           "devspectrum",
		Short:         "DevSpectrum developer persona quiz tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.Out)

	root.AddCommand(
		newRenderCmd(app),
		newValidateCmd(app),
		newSeedCmd(app),
	)
	return root
}
