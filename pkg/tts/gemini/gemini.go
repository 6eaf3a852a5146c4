// Package gemini synthesizes speech with the Gemini TTS models through the
// genai SDK. Gemini has no voice listing endpoint, so the catalog is built
// from the published prebuilt voices and language list.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/Aufco/AudioProject-Female/pkg/audio/resampler"
	"github.com/Aufco/AudioProject-Female/pkg/audio/wav"
	"github.com/Aufco/AudioProject-Female/pkg/pipeline"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

// DefaultModel is used when Provider.Model is empty.
const DefaultModel = "gemini-2.5-flash-preview-tts"

// OutputRate is the rate of the raw PCM returned by the model.
const OutputRate = 24000

// Marker appears in every catalog voice id.
const Marker = "Gemini"

// Tiers ranks the Gemini catalog. All prebuilt voices share one tier.
var Tiers = voices.Tiers{{Marker: Marker, Tier: 1}}

// Prebuilt voices and their published genders.
var Prebuilt = []struct {
	Name   string
	Gender voices.Gender
}{
	{"Achernar", voices.Female},
	{"Achird", voices.Male},
	{"Algenib", voices.Male},
	{"Algieba", voices.Male},
	{"Alnilam", voices.Male},
	{"Aoede", voices.Female},
	{"Autonoe", voices.Female},
	{"Callirrhoe", voices.Female},
	{"Charon", voices.Male},
	{"Despina", voices.Female},
	{"Enceladus", voices.Male},
	{"Erinome", voices.Female},
	{"Fenrir", voices.Male},
	{"Gacrux", voices.Female},
	{"Iapetus", voices.Male},
	{"Kore", voices.Female},
	{"Laomedeia", voices.Female},
	{"Leda", voices.Female},
	{"Orus", voices.Male},
	{"Puck", voices.Male},
	{"Pulcherrima", voices.Female},
	{"Rasalgethi", voices.Male},
	{"Sadachbia", voices.Male},
	{"Sadaltager", voices.Male},
	{"Schedar", voices.Male},
	{"Sulafat", voices.Female},
	{"Umbriel", voices.Male},
	{"Vindemiatrix", voices.Female},
	{"Zephyr", voices.Female},
	{"Zubenelgenubi", voices.Male},
}

// Languages the TTS models accept.
var Languages = []string{
	"ar-EG", "bn-BD", "de-DE", "en-IN", "en-US", "es-US", "fr-FR", "hi-IN",
	"id-ID", "it-IT", "ja-JP", "ko-KR", "mr-IN", "nl-NL", "pl-PL", "pt-BR",
	"ro-RO", "ru-RU", "ta-IN", "te-IN", "th-TH", "tr-TR", "uk-UA", "vi-VN",
}

// VoiceID returns the catalog id of a prebuilt voice for code.
func VoiceID(code, name string) string {
	return code + "-" + Marker + "-" + name
}

// ParseVoiceID splits a catalog id into language code and prebuilt name.
func ParseVoiceID(id string) (code, name string, ok bool) {
	code, name, ok = strings.Cut(id, "-"+Marker+"-")
	if !ok || code == "" || name == "" {
		return "", "", false
	}
	return code, name, true
}

// Catalog returns every prebuilt voice for every supported language.
func Catalog() voices.Catalog {
	c := make(voices.Catalog, 0, len(Languages)*len(Prebuilt))
	for _, code := range Languages {
		for _, p := range Prebuilt {
			c = append(c, voices.Voice{
				ID:            VoiceID(code, p.Name),
				LanguageCodes: []string{code},
				Gender:        p.Gender,
				SampleRateHz:  OutputRate,
			})
		}
	}
	return c
}

// ContentGenerator is the subset of genai.Models used here.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewClient returns a Gemini API client. An empty apiKey lets the SDK read
// GOOGLE_API_KEY or GEMINI_API_KEY.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return c, nil
}

// Provider implements voices.Fetcher and pipeline.Synthesizer.
type Provider struct {
	Models ContentGenerator
	Model  string
	// SampleRateHz overrides the voice rate of the returned WAV when set.
	SampleRateHz int
	// Style is an optional delivery instruction such as "Say calmly".
	// It is sent before the text, separated by a colon.
	Style string
}

// ListVoices returns the static catalog.
func (p *Provider) ListVoices(ctx context.Context) (voices.Catalog, error) {
	return Catalog(), nil
}

func (p *Provider) model() string {
	if p.Model != "" {
		return p.Model
	}
	return DefaultModel
}

func (p *Provider) rate(v voices.Voice) int {
	switch {
	case p.SampleRateHz > 0:
		return p.SampleRateHz
	case v.SampleRateHz > 0:
		return v.SampleRateHz
	}
	return OutputRate
}

// Synthesize speaks text with v and returns 16-bit mono WAV.
func (p *Provider) Synthesize(ctx context.Context, v voices.Voice, language, text string) ([]byte, error) {
	code, name, ok := ParseVoiceID(v.ID)
	if !ok {
		return nil, fmt.Errorf("gemini: not a Gemini voice: %q", v.ID)
	}
	if language != "" {
		code = language
	}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			LanguageCode: code,
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: name},
			},
		},
	}
	if p.Style != "" {
		text = p.Style + ": " + text
	}
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	resp, err := p.Models.GenerateContent(ctx, p.model(), contents, cfg)
	if err != nil {
		return nil, classify(err)
	}
	pcm, err := audioData(resp)
	if err != nil {
		return nil, err
	}
	rate := p.rate(v)
	if rate != OutputRate {
		pcm, err = resampler.Resample(pcm,
			resampler.Format{SampleRate: OutputRate},
			resampler.Format{SampleRate: rate})
		if err != nil {
			return nil, fmt.Errorf("gemini: resample: %w", err)
		}
	}
	return wav.Encode(pcm, wav.Mono16(rate)), nil
}

// audioData concatenates the inline audio parts of the first candidate.
func audioData(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("gemini: empty response")
	}
	var pcm []byte
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}
		pcm = append(pcm, part.InlineData.Data...)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("gemini: no audio in response (finish reason %q)", resp.Candidates[0].FinishReason)
	}
	return pcm, nil
}

func classify(err error) error {
	var ae genai.APIError
	if errors.As(err, &ae) && (ae.Code == http.StatusTooManyRequests || ae.Status == "RESOURCE_EXHAUSTED") {
		return fmt.Errorf("gemini: %w: %w", voices.ErrQuota, err)
	}
	return fmt.Errorf("gemini: %w", err)
}

var (
	_ voices.Fetcher       = (*Provider)(nil)
	_ pipeline.Synthesizer = (*Provider)(nil)
	_ ContentGenerator     = (*genai.Models)(nil)
)
