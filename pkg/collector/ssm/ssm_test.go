package ssm

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	inverrors "github.com/NVIDIA/ssm-inventory/pkg/errors"
	"github.com/NVIDIA/ssm-inventory/pkg/parameter"
)

// fakeClient serves pre-defined pages keyed by NextToken.
type fakeClient struct {
	pages  [][]types.Parameter
	err    error
	inputs []*awsssm.GetParametersByPathInput
}

func (f *fakeClient) GetParametersByPath(_ context.Context, in *awsssm.GetParametersByPathInput, _ ...func(*awsssm.Options)) (*awsssm.GetParametersByPathOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}

	idx := 0
	if in.NextToken != nil {
		_, _ = fmt.Sscanf(*in.NextToken, "page-%d", &idx)
	}
	if idx >= len(f.pages) {
		return &awsssm.GetParametersByPathOutput{}, nil
	}

	out := &awsssm.GetParametersByPathOutput{Parameters: f.pages[idx]}
	if idx+1 < len(f.pages) {
		out.NextToken = aws.String(fmt.Sprintf("page-%d", idx+1))
	}
	return out, nil
}

func param(name, value string) types.Parameter {
	return types.Parameter{Name: aws.String(name), Value: aws.String(value)}
}

func TestCollector_Collect_FollowsPages(t *testing.T) {
	client := &fakeClient{pages: [][]types.Parameter{
		{param("/proxmox/cl1/n01/ip", "10.10.1.11"), param("/proxmox/cl1/n01/mac", "aa:bb:cc:11:22:33")},
		{param("/weka/cl1/n01/container_id", "weka-01")},
		{param("/proxmox/cl1/shared/token", "XYZ")},
	}}
	c := &Collector{Client: client, WithDecryption: true}

	entries, err := c.Collect(context.Background(), "/")
	require.NoError(t, err)

	assert.Equal(t, []parameter.Entry{
		{Path: "/proxmox/cl1/n01/ip", Value: "10.10.1.11"},
		{Path: "/proxmox/cl1/n01/mac", Value: "aa:bb:cc:11:22:33"},
		{Path: "/weka/cl1/n01/container_id", Value: "weka-01"},
		{Path: "/proxmox/cl1/shared/token", Value: "XYZ"},
	}, entries)

	require.Len(t, client.inputs, 3)
	first := client.inputs[0]
	assert.Equal(t, "/", aws.ToString(first.Path))
	assert.True(t, aws.ToBool(first.Recursive))
	assert.True(t, aws.ToBool(first.WithDecryption))
	assert.Nil(t, first.NextToken)
	assert.Equal(t, "page-2", aws.ToString(client.inputs[2].NextToken))
}

func TestCollector_Collect_EmptyIsNotAnError(t *testing.T) {
	c := &Collector{Client: &fakeClient{}}

	entries, err := c.Collect(context.Background(), "/nothing")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestCollector_Collect_WithLimiter(t *testing.T) {
	client := &fakeClient{pages: [][]types.Parameter{
		{param("/a/b/c/d", "1")},
		{param("/a/b/c/e", "2")},
	}}
	c := &Collector{Client: client, Limiter: rate.NewLimiter(rate.Inf, 1)}

	entries, err := c.Collect(context.Background(), "/a")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCollector_Collect_LimiterDeadlineIsTimeout(t *testing.T) {
	client := &fakeClient{pages: [][]types.Parameter{
		{param("/a/b/c/d", "1")},
		{param("/a/b/c/e", "2")},
	}}
	c := &Collector{Client: client, Limiter: rate.NewLimiter(rate.Every(time.Hour), 1)}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := c.Collect(ctx, "/a")
	require.Error(t, err)
	assert.Equal(t, inverrors.ErrCodeTimeout, inverrors.CodeOf(err))
	assert.Len(t, client.inputs, 1, "second page must not be requested")
}

func TestCollector_Collect_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Collector{Client: &fakeClient{}}
	entries, err := c.Collect(ctx, "/")

	assert.Nil(t, entries)
	assert.Equal(t, context.Canceled, err)
}

func TestCollector_Collect_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want inverrors.ErrorCode
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "denied"}, inverrors.ErrCodeUnauthorized},
		{"expired token", &smithy.GenericAPIError{Code: "ExpiredTokenException"}, inverrors.ErrCodeUnauthorized},
		{"throttled", &smithy.GenericAPIError{Code: "ThrottlingException"}, inverrors.ErrCodeRateLimitExceeded},
		{"validation", &smithy.GenericAPIError{Code: "ValidationException"}, inverrors.ErrCodeInvalidRequest},
		{"unknown api error", &smithy.GenericAPIError{Code: "InternalServerError"}, inverrors.ErrCodeUnavailable},
		{"transport", errors.New("dial tcp: connection refused"), inverrors.ErrCodeUnavailable},
		{"deadline", context.DeadlineExceeded, inverrors.ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Collector{Client: &fakeClient{err: tt.err}}

			_, err := c.Collect(context.Background(), "/proxmox")
			require.Error(t, err)

			var se *inverrors.StructuredError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.want, se.Code)
			assert.Equal(t, "/proxmox", se.Context["root"])
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCollector_Collect_PassesCancellationThrough(t *testing.T) {
	c := &Collector{Client: &fakeClient{err: fmt.Errorf("operation error SSM: %w", context.Canceled)}}

	_, err := c.Collect(context.Background(), "/")
	assert.ErrorIs(t, err, context.Canceled)

	var se *inverrors.StructuredError
	assert.False(t, errors.As(err, &se))
}

func TestCollector_Name(t *testing.T) {
	assert.Equal(t, "ssm", (&Collector{}).Name())
}

// rootClient answers each path with a single parameter and is safe for concurrent use.
type rootClient struct{}

func (rootClient) GetParametersByPath(_ context.Context, in *awsssm.GetParametersByPathInput, _ ...func(*awsssm.Options)) (*awsssm.GetParametersByPathOutput, error) {
	path := aws.ToString(in.Path)
	return &awsssm.GetParametersByPathOutput{
		Parameters: []types.Parameter{param(path+"/cl1/n01/ip", "10.10.1.11")},
	}, nil
}

func TestCollector_Collect_ConcurrentLazyClient(t *testing.T) {
	var builds atomic.Int32
	c := &Collector{
		Region: "us-west-2",
		newClient: func(context.Context) (awsssm.GetParametersByPathAPIClient, error) {
			builds.Add(1)
			return rootClient{}, nil
		},
	}

	roots := []string{"/proxmox", "/ceph", "/weka", "/slurm", "/lustre"}
	results := make([][]parameter.Entry, len(roots))

	g, ctx := errgroup.WithContext(context.Background())
	for i, root := range roots {
		g.Go(func() error {
			entries, err := c.Collect(ctx, root)
			results[i] = entries
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), builds.Load())
	for i, root := range roots {
		assert.Equal(t, []parameter.Entry{{Path: root + "/cl1/n01/ip", Value: "10.10.1.11"}}, results[i])
	}
}

func TestCollector_Collect_ClientBuildErrorIsRetried(t *testing.T) {
	var builds atomic.Int32
	c := &Collector{
		newClient: func(context.Context) (awsssm.GetParametersByPathAPIClient, error) {
			if builds.Add(1) == 1 {
				return nil, errors.New("no credentials")
			}
			return rootClient{}, nil
		},
	}

	_, err := c.Collect(context.Background(), "/proxmox")
	require.Error(t, err)

	entries, err := c.Collect(context.Background(), "/proxmox")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, int32(2), builds.Load())
}
