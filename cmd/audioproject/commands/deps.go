package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gcs "cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"google.golang.org/api/option"

	"github.com/Aufco/AudioProject-Female/pkg/cli"
	"github.com/Aufco/AudioProject-Female/pkg/kv"
	"github.com/Aufco/AudioProject-Female/pkg/ledger"
	"github.com/Aufco/AudioProject-Female/pkg/pipeline"
	"github.com/Aufco/AudioProject-Female/pkg/storage"
	"github.com/Aufco/AudioProject-Female/pkg/tts/gemini"
	"github.com/Aufco/AudioProject-Female/pkg/tts/google"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

// provider is a speech backend: it lists voices and synthesizes them.
type provider interface {
	voices.Fetcher
	pipeline.Synthesizer
}

// closers releases resources in reverse order of acquisition.
type closers []func() error

func (c *closers) add(f func() error) { *c = append(*c, f) }

func (c closers) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		errs = append(errs, c[i]())
	}
	return errors.Join(errs...)
}

// newProvider builds the speech provider of a context and returns its
// default tier table.
func newProvider(ctx context.Context, c *cli.Context, cl *closers) (provider, voices.Tiers, error) {
	switch c.ProviderName() {
	case cli.ProviderGemini:
		client, err := gemini.NewClient(ctx, c.APIKey)
		if err != nil {
			return nil, nil, err
		}
		return &gemini.Provider{
			Models:       client.Models,
			Model:        c.Model,
			SampleRateHz: c.SampleRate,
			Style:        c.GetExtra(cli.ExtraStyle),
		}, gemini.Tiers, nil
	default:
		client, err := google.NewClient(ctx, c.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		cl.add(client.Close)
		return &google.Provider{Client: client, SampleRateHz: c.SampleRate}, voices.DefaultTiers, nil
	}
}

// catalogTiers returns the default tier table of a context's provider
// without dialing it.
func catalogTiers(c *cli.Context) voices.Tiers {
	if c.ProviderName() == cli.ProviderGemini {
		return gemini.Tiers
	}
	return voices.DefaultTiers
}

// newBucket opens the remote store of a context. It returns nil when the
// context has no storage configured.
func newBucket(ctx context.Context, c *cli.Context, cl *closers) (*storage.Bucket, error) {
	sc := c.Storage
	if sc == nil {
		return nil, nil
	}
	var store storage.Store
	switch sc.Backend {
	case cli.BackendLocal:
		local, err := storage.NewLocal(sc.Root)
		if err != nil {
			return nil, fmt.Errorf("local storage: %w", err)
		}
		store = local
	case cli.BackendGCS:
		var opts []option.ClientOption
		if c.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
		}
		if sc.Endpoint != "" {
			opts = append(opts, option.WithEndpoint(sc.Endpoint))
		}
		client, err := gcs.NewClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("gcs client: %w", err)
		}
		cl.add(client.Close)
		store = storage.NewGCS(client, sc.Bucket, "")
	case cli.BackendS3:
		var loadOpts []func(*awsconfig.LoadOptions) error
		if sc.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(sc.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if sc.Endpoint != "" {
				o.BaseEndpoint = aws.String(sc.Endpoint)
				o.UsePathStyle = true
			}
		})
		store = storage.NewS3(client, sc.Bucket, "")
	default:
		return nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
	}
	slog.Debug("storage: opened", "backend", sc.Backend, "bucket", sc.Bucket, "prefix", sc.Prefix)
	return &storage.Bucket{Store: store, Prefix: sc.Prefix}, nil
}

// openLedger opens the on-disk run history.
func openLedger(cl *closers) (*ledger.Ledger, error) {
	paths, err := cli.NewPaths(appName)
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDataDir(); err != nil {
		return nil, err
	}
	store, err := kv.NewBadger(kv.BadgerOptions{Dir: paths.LedgerDir(), Logger: slog.Default()})
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	cl.add(store.Close)
	return ledger.New(store), nil
}
