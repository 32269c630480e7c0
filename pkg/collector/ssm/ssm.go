package ssm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/ssm-inventory/pkg/defaults"
	inverrors "github.com/NVIDIA/ssm-inventory/pkg/errors"
	"github.com/NVIDIA/ssm-inventory/pkg/parameter"
)

// Collector fetches parameters from AWS Systems Manager Parameter Store.
type Collector struct {
	// Client is the SSM API client. If nil, one is created from the default
	// AWS config chain using Region and Profile.
	Client awsssm.GetParametersByPathAPIClient

	// Region is the AWS region of the parameter store.
	Region string

	// Profile is the optional shared config profile.
	Profile string

	// WithDecryption decrypts SecureString parameters.
	WithDecryption bool

	// Limiter paces page requests to stay under the API throttling limits. Optional.
	Limiter *rate.Limiter

	// newClient builds the client when Client is nil. Overridden in tests.
	newClient func(ctx context.Context) (awsssm.GetParametersByPathAPIClient, error)

	mu sync.Mutex
}

// Name implements collector.Collector.
func (c *Collector) Name() string {
	return "ssm"
}

// Collect recursively retrieves all parameters under root, following NextToken
// until the last page.
func (c *Collector) Collect(ctx context.Context, root string) ([]parameter.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	api, err := c.getClient(ctx)
	if err != nil {
		return nil, err
	}

	paginator := awsssm.NewGetParametersByPathPaginator(api, &awsssm.GetParametersByPathInput{
		Path:           aws.String(root),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(c.WithDecryption),
		MaxResults:     aws.Int32(defaults.SSMPageSize),
	})

	var entries []parameter.Entry
	pages := 0
	for paginator.HasMorePages() {
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				// Wait fails early when the deadline cannot be met
				if ctxErr := ctx.Err(); ctxErr != nil {
					err = ctxErr
				} else if _, ok := ctx.Deadline(); ok {
					err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
				}
				return nil, classifyError(root, err)
			}
		}

		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyError(root, err)
		}
		pages++

		for _, p := range out.Parameters {
			entries = append(entries, parameter.Entry{
				Path:  aws.ToString(p.Name),
				Value: aws.ToString(p.Value),
			})
		}
	}

	slog.Debug("fetched parameters from ssm",
		slog.String("root", root),
		slog.Int("pages", pages),
		slog.Int("parameters", len(entries)),
	)

	if entries == nil {
		entries = []parameter.Entry{}
	}
	return entries, nil
}

// getClient returns Client, building it once from the AWS config chain.
// Collect may run concurrently for several roots, so the lazy build is
// serialized. A failed build is retried on the next call.
func (c *Collector) getClient(ctx context.Context) (awsssm.GetParametersByPathAPIClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Client != nil {
		return c.Client, nil
	}

	build := c.newClient
	if build == nil {
		build = c.loadClient
	}

	api, err := build(ctx)
	if err != nil {
		return nil, err
	}
	c.Client = api
	return api, nil
}

func (c *Collector) loadClient(ctx context.Context) (awsssm.GetParametersByPathAPIClient, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(c.Region),
	}
	if c.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(c.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, inverrors.WrapWithContext(inverrors.ErrCodeUnauthorized, "failed to load AWS configuration", err,
			map[string]any{"region": c.Region, "profile": c.Profile})
	}

	return awsssm.NewFromConfig(cfg), nil
}

// classifyError maps an SSM failure onto a structured error code.
// Context cancellation is passed through unchanged.
func classifyError(root string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	details := map[string]any{"root": root}

	if errors.Is(err, context.DeadlineExceeded) {
		return inverrors.WrapWithContext(inverrors.ErrCodeTimeout, "timed out fetching parameters", err, details)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		details["api_error"] = apiErr.ErrorCode()
		switch apiErr.ErrorCode() {
		case "AccessDeniedException", "UnrecognizedClientException", "InvalidSignatureException",
			"ExpiredTokenException", "InvalidClientTokenId":
			return inverrors.WrapWithContext(inverrors.ErrCodeUnauthorized, "not authorized to read parameters", err, details)
		case "ThrottlingException", "TooManyRequestsException":
			return inverrors.WrapWithContext(inverrors.ErrCodeRateLimitExceeded, "parameter store throttled the request", err, details)
		case "ValidationException", "InvalidFilterKey", "InvalidFilterValue", "InvalidKeyId":
			return inverrors.WrapWithContext(inverrors.ErrCodeInvalidRequest, "parameter store rejected the request", err, details)
		}
	}

	return inverrors.WrapWithContext(inverrors.ErrCodeUnavailable, fmt.Sprintf("failed to fetch parameters from %s", root), err, details)
}
