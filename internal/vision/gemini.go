package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/prestafacil/avaluador/internal/interfaces"
	"github.com/prestafacil/avaluador/internal/utils"
)

const geminiSystemPrompt = `Eres el módulo de inspección visual de un sistema de avalúo de computadores usados.
Analiza las fotos del equipo y las notas del vendedor. Devuelve SOLO JSON con esta forma:
{"danios":[{"codigo":"<codigo>","confianza":0.0}],"ram_gb":null,"disco_gb":null,"generacion":null,"grafica_dedicada":null}
Códigos de daño permitidos: pantalla_quebrada, carcasa_danada, rayones, bisagra_rota, teclado_incompleto, manchas.
Reporta un daño solo si es visible en las fotos o explícito en las notas; confianza en [0, 1].
Lee etiquetas y pantallas visibles: si puedes determinar RAM en GB, capacidad de disco en GB,
generación del procesador o presencia de gráfica dedicada, llena esos campos; si no, déjalos en null.
No inventes valores. Cualquier texto fuera del JSON es un error.`

// geminiReport is the JSON shape the prompt asks the model for. Pointer
// fields distinguish "not visible" from zero.
type geminiReport struct {
	Danios []struct {
		Codigo    string  `json:"codigo"`
		Confianza float64 `json:"confianza"`
	} `json:"danios"`
	RAMGB           *int  `json:"ram_gb"`
	DiscoGB         *int  `json:"disco_gb"`
	Generacion      *int  `json:"generacion"`
	GraficaDedicada *bool `json:"grafica_dedicada"`
}

// Gemini analyzes photos through the Gemini API. A fresh client is opened
// per call; analysis traffic is sparse enough that connection reuse buys
// nothing.
type Gemini struct {
	apiKey    string
	model     string
	maxImages int
	timeout   time.Duration
	logger    interfaces.Logger
}

// NewGemini validates cfg and returns the provider. The API key must be set;
// running without one is the heuristic provider's job.
func NewGemini(cfg Config, logger interfaces.Logger) (*Gemini, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("vision config: %w", err)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Gemini{
		apiKey:    strings.TrimSpace(cfg.APIKey),
		model:     strings.TrimSpace(cfg.Model),
		maxImages: cfg.MaxImages,
		timeout:   cfg.Timeout,
		logger:    logger,
	}, nil
}

// Analyze implements Provider.
func (g *Gemini) Analyze(ctx context.Context, images []Image, notes string) (Signals, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return Signals{}, fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(geminiSystemPrompt)},
	}

	if len(images) > g.maxImages {
		g.logger.Warn("dropping extra images beyond the analysis cap",
			interfaces.Field{Key: "recibidas", Value: len(images)},
			interfaces.Field{Key: "max", Value: g.maxImages},
		)
		images = images[:g.maxImages]
	}

	user := "Notas del vendedor: " + strings.TrimSpace(notes)
	if strings.TrimSpace(notes) == "" {
		user = "Sin notas del vendedor."
	}
	parts := make([]genai.Part, 0, len(images)+1)
	parts = append(parts, genai.Text(user))
	for _, img := range images {
		parts = append(parts, &genai.Blob{MIMEType: img.MIMEType, Data: img.Data})
	}

	// Retries cover transient upstream failures only; a malformed answer
	// fails immediately.
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
			continue
		}
		txt := firstText(resp)
		if txt == "" {
			return Signals{}, fmt.Errorf("gemini: empty response")
		}
		txt = utils.StripCodeFences(txt)

		var report geminiReport
		if err := json.Unmarshal([]byte(txt), &report); err != nil {
			return Signals{}, fmt.Errorf("gemini: bad JSON: %w", err)
		}
		return g.signals(report), nil
	}
	return Signals{}, fmt.Errorf("gemini: %w", lastErr)
}

func (g *Gemini) signals(report geminiReport) Signals {
	s := Signals{Provider: ProviderGemini}
	for _, d := range report.Danios {
		dmg, ok := newDamage(d.Codigo, d.Confianza)
		if !ok {
			g.logger.Debug("discarding damage code outside the catalog",
				interfaces.Field{Key: "codigo", Value: d.Codigo})
			continue
		}
		s.Damages = append(s.Damages, dmg)
	}
	sortDamages(s.Damages)
	s.Hints = SpecHints{
		RAMGB:                report.RAMGB,
		DiskCapacityGB:       report.DiscoGB,
		ProcessorGeneration:  report.Generacion,
		HasDedicatedGraphics: report.GraficaDedicada,
	}
	return s
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return strings.TrimSpace(string(t))
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
