// Package google adapts Google Cloud Text-to-Speech to the voice catalog and
// the generation pipeline.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Aufco/AudioProject-Female/pkg/pipeline"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

// DefaultSampleRate is requested when neither the synthesizer nor the
// voice names a rate.
const DefaultSampleRate = 24000

// Client is the subset of the Text-to-Speech client used here.
type Client interface {
	ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest, opts ...gax.CallOption) (*texttospeechpb.ListVoicesResponse, error)
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
}

// NewClient dials the Text-to-Speech API. An empty credentialsFile uses
// application default credentials.
func NewClient(ctx context.Context, credentialsFile string) (*texttospeech.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	c, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google: new client: %w", err)
	}
	return c, nil
}

// Provider lists voices and synthesizes LINEAR16 audio.
type Provider struct {
	Client Client
	// SampleRateHz overrides the per-voice natural rate when set.
	SampleRateHz int
}

// ListVoices implements voices.Fetcher.
func (p *Provider) ListVoices(ctx context.Context) (voices.Catalog, error) {
	resp, err := p.Client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{})
	if err != nil {
		return nil, classify(err)
	}
	var c voices.Catalog
	for _, v := range resp.GetVoices() {
		g, err := voices.ParseGender(v.GetSsmlGender().String())
		if err != nil {
			slog.Warn("google: unknown gender", "voice", v.GetName(), "gender", v.GetSsmlGender().String())
		}
		c = append(c, voices.Voice{
			ID:            v.GetName(),
			LanguageCodes: append([]string(nil), v.GetLanguageCodes()...),
			Gender:        g,
			SampleRateHz:  int(v.GetNaturalSampleRateHertz()),
		})
	}
	return c, nil
}

// LanguageOf returns the "ll-CC" prefix of a voice id.
func LanguageOf(voiceID string) string {
	parts := strings.SplitN(voiceID, "-", 3)
	if len(parts) < 2 {
		return voiceID
	}
	return parts[0] + "-" + parts[1]
}

func (p *Provider) sampleRate(v voices.Voice) int32 {
	switch {
	case p.SampleRateHz > 0:
		return int32(p.SampleRateHz)
	case v.SampleRateHz > 0:
		return int32(v.SampleRateHz)
	}
	return DefaultSampleRate
}

// Synthesize implements pipeline.Synthesizer. Without a language the one
// named by the voice id is requested. The returned LINEAR16 audio carries a
// WAV header.
func (p *Provider) Synthesize(ctx context.Context, v voices.Voice, language, text string) ([]byte, error) {
	lang := language
	if lang == "" {
		lang = LanguageOf(v.ID)
	}
	resp, err := p.Client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: lang,
			Name:         v.ID,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding:   texttospeechpb.AudioEncoding_LINEAR16,
			SampleRateHertz: p.sampleRate(v),
		},
	})
	if err != nil {
		return nil, classify(err)
	}
	return resp.GetAudioContent(), nil
}

// classify maps quota errors to voices.ErrQuota.
func classify(err error) error {
	if IsQuota(err) {
		return fmt.Errorf("google: %w: %w", voices.ErrQuota, err)
	}
	return fmt.Errorf("google: %w", err)
}

// IsQuota reports whether err is a resource-exhausted API error.
func IsQuota(err error) bool {
	var ae *apierror.APIError
	if errors.As(err, &ae) {
		if ae.HTTPCode() == http.StatusTooManyRequests {
			return true
		}
		if s := ae.GRPCStatus(); s != nil && s.Code() == codes.ResourceExhausted {
			return true
		}
	}
	return status.Code(err) == codes.ResourceExhausted
}

var (
	_ voices.Fetcher       = (*Provider)(nil)
	_ pipeline.Synthesizer = (*Provider)(nil)
	_ Client               = (*texttospeech.Client)(nil)
)
