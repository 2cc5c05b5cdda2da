package cli

import (
	"testing"
)

func TestParseArgs_Serve(t *testing.T) {
	t.Parallel()

	cmd, err := ParseArgs([]string{"serve", "-addr", ":9000"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cmd.Name != CmdServe {
		t.Errorf("expected serve, got %q", cmd.Name)
	}
	if cmd.Addr != ":9000" {
		t.Errorf("expected :9000, got %q", cmd.Addr)
	}
}

func TestParseArgs_ServeDefaultsAddr(t *testing.T) {
	t.Parallel()

	cmd, err := ParseArgs([]string{"serve"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cmd.Addr != "" {
		t.Errorf("expected empty addr so the environment decides, got %q", cmd.Addr)
	}
}

func TestParseArgs_Appraise(t *testing.T) {
	t.Parallel()

	cmd, err := ParseArgs([]string{
		"avaluar", "-spec", "equipo.json",
		"-imagen", "frente.jpg", "-imagen", "teclado.jpg",
		"-notas", "pantalla rota",
	})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cmd.SpecPath != "equipo.json" {
		t.Errorf("unexpected spec path %q", cmd.SpecPath)
	}
	if len(cmd.Images) != 2 || cmd.Images[1] != "teclado.jpg" {
		t.Errorf("expected both -imagen flags collected, got %v", cmd.Images)
	}
	if cmd.Notes != "pantalla rota" {
		t.Errorf("unexpected notes %q", cmd.Notes)
	}
}

func TestParseArgs_AppraiseRequiresSpec(t *testing.T) {
	t.Parallel()

	if _, err := ParseArgs([]string{"avaluar"}); err == nil {
		t.Error("expected an error without -spec")
	}
}

func TestParseArgs_ModelActions(t *testing.T) {
	t.Parallel()

	cmd, err := ParseArgs([]string{"modelo", "importar", "-activar=false", "modelo.json"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cmd.ModelAction != ModelImport || cmd.ArtifactPath != "modelo.json" || cmd.Activate {
		t.Errorf("unexpected import command: %+v", cmd)
	}

	cmd, err = ParseArgs([]string{"modelo", "importar", "modelo.json"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if !cmd.Activate {
		t.Error("import should activate by default")
	}

	cmd, err = ParseArgs([]string{"modelo", "activar", "lineal-2025-11"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cmd.Version != "lineal-2025-11" {
		t.Errorf("unexpected version %q", cmd.Version)
	}

	if _, err := ParseArgs([]string{"modelo", "listar", "extra"}); err == nil {
		t.Error("expected an error for extra arguments")
	}
	if _, err := ParseArgs([]string{"modelo", "exportar"}); err == nil {
		t.Error("expected an error for an unknown action")
	}
}

func TestParseArgs_UnknownCommand(t *testing.T) {
	t.Parallel()

	if _, err := ParseArgs([]string{"scan"}); err == nil {
		t.Error("expected an error for an unknown command")
	}
	if _, err := ParseArgs(nil); err == nil {
		t.Error("expected an error for no arguments")
	}
}
