package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// Command names understood by the avaluador binary.
const (
	CmdServe    = "serve"
	CmdAppraise = "avaluar"
	CmdModel    = "modelo"
)

// Model subcommand actions.
const (
	ModelImport   = "importar"
	ModelList     = "listar"
	ModelActivate = "activar"
)

// imageList collects repeated -imagen flags.
type imageList []string

func (l *imageList) String() string { return fmt.Sprint(*l) }

func (l *imageList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Command is one parsed invocation of the avaluador binary. Only the fields
// of the named command are populated.
type Command struct {
	Name string

	// serve
	Addr string

	// avaluar
	SpecPath string
	Images   []string
	Notes    string

	// modelo
	ModelAction  string
	ArtifactPath string
	Activate     bool
	Version      string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// Usage is printed when the arguments cannot be parsed.
const Usage = `uso: avaluador <comando>

comandos:
  serve                  inicia el servidor HTTP
      -addr :8080            dirección de escucha
  avaluar                valora un equipo descrito en un archivo JSON
      -spec equipo.json      especificación del equipo ("-" lee stdin)
      -imagen foto.jpg       foto del equipo (repetible)
      -notas "..."           notas del vendedor
  modelo importar [-activar=false] <archivo>
  modelo listar
  modelo activar <version>
`

// ParseArgs parses a slice of args and returns the Command. Use in tests by
// passing arbitrary slices. The function is deterministic and does not read
// os.Args.
func ParseArgs(args []string) (*Command, error) {
	if len(args) == 0 {
		return nil, errors.New("missing command: serve, avaluar or modelo")
	}

	switch args[0] {
	case CmdServe:
		return parseServe(args)
	case CmdAppraise:
		return parseAppraise(args)
	case CmdModel:
		return parseModel(args)
	default:
		return nil, fmt.Errorf("unknown command %q", args[0])
	}
}

func parseServe(args []string) (*Command, error) {
	fs := flag.NewFlagSet(CmdServe, flag.ContinueOnError)
	addr := fs.String("addr", "", "listen address (overrides AVALUADOR_ADDR)")
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	return &Command{Name: CmdServe, Addr: *addr, RawArgs: args}, nil
}

func parseAppraise(args []string) (*Command, error) {
	fs := flag.NewFlagSet(CmdAppraise, flag.ContinueOnError)
	var images imageList
	spec := fs.String("spec", "", `JSON file with the device specification, "-" for stdin`)
	notes := fs.String("notas", "", "seller notes passed to image analysis")
	fs.Var(&images, "imagen", "photo of the device, may repeat")
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	if *spec == "" {
		return nil, errors.New("missing required -spec argument")
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	return &Command{
		Name:     CmdAppraise,
		SpecPath: *spec,
		Images:   images,
		Notes:    *notes,
		RawArgs:  args,
	}, nil
}

func parseModel(args []string) (*Command, error) {
	if len(args) < 2 {
		return nil, errors.New("missing model action: importar, listar or activar")
	}

	cmd := &Command{Name: CmdModel, ModelAction: args[1], RawArgs: args}
	rest := args[2:]

	switch args[1] {
	case ModelImport:
		fs := flag.NewFlagSet(ModelImport, flag.ContinueOnError)
		activate := fs.Bool("activar", true, "activate the imported version")
		fs.SetOutput(io.Discard)
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		if fs.NArg() != 1 {
			return nil, errors.New("usage: modelo importar [-activar=false] <archivo>")
		}
		cmd.ArtifactPath = fs.Arg(0)
		cmd.Activate = *activate
	case ModelList:
		if len(rest) != 0 {
			return nil, errors.New("usage: modelo listar")
		}
	case ModelActivate:
		if len(rest) != 1 {
			return nil, errors.New("usage: modelo activar <version>")
		}
		cmd.Version = rest[0]
	default:
		return nil, fmt.Errorf("unknown model action %q", args[1])
	}

	return cmd, nil
}
