package awsclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sns.PublishOutput{}, f.err
}

func TestSNSClient_Publish(t *testing.T) {
	api := &fakeSNS{}
	c := NewSNSClientWithAPI(api)

	require.NoError(t, c.Publish(context.Background(), "arn:aws:sns:eu-west-1:000000000000:orders", []byte(`{"a":1}`)))
	require.Len(t, api.inputs, 1)
	assert.Equal(t, `{"a":1}`, *api.inputs[0].Message)
	assert.Equal(t, "arn:aws:sns:eu-west-1:000000000000:orders", *api.inputs[0].TopicArn)
}

func TestSNSClient_EmptyTopic(t *testing.T) {
	api := &fakeSNS{}
	err := NewSNSClientWithAPI(api).Publish(context.Background(), "", []byte("x"))
	assert.Error(t, err)
	assert.Empty(t, api.inputs)
}

func TestSNSClient_WrapsError(t *testing.T) {
	boom := errors.New("throttled")
	err := NewSNSClientWithAPI(&fakeSNS{err: boom}).Publish(context.Background(), "arn", []byte("x"))
	assert.ErrorIs(t, err, boom)
}

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestMetricsClient_Disabled(t *testing.T) {
	api := &fakeCloudWatch{}
	m := NewMetricsClientWithAPI(api, "", false)

	assert.NoError(t, m.RecordCount(context.Background(), MetricOrdersCreated, nil))
	assert.False(t, m.IsEnabled())
	assert.Empty(t, api.inputs)
}

func TestMetricsClient_RecordLatency(t *testing.T) {
	api := &fakeCloudWatch{}
	m := NewMetricsClientWithAPI(api, "", true)

	err := m.RecordLatency(context.Background(), MetricHTTPLatency, 250*time.Millisecond,
		map[string]string{"Path": "/cart", "Method": "GET"})
	require.NoError(t, err)
	require.Len(t, api.inputs, 1)

	in := api.inputs[0]
	assert.Equal(t, DefaultNamespace, *in.Namespace)
	datum := in.MetricData[0]
	assert.Equal(t, MetricHTTPLatency, *datum.MetricName)
	assert.Equal(t, 250.0, *datum.Value)
	assert.Equal(t, cwtypes.StandardUnitMilliseconds, datum.Unit)
	require.Len(t, datum.Dimensions, 2)
	assert.Equal(t, "Method", *datum.Dimensions[0].Name)
	assert.Equal(t, "Path", *datum.Dimensions[1].Name)
}

type fakeSecrets struct {
	calls int
	value *string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value}, nil
}

func TestSecretsClient_Caches(t *testing.T) {
	v := `{"username":"shop"}`
	api := &fakeSecrets{value: &v}
	c := NewSecretsClientWithAPI(api)

	for i := 0; i < 3; i++ {
		got, err := c.GetSecret(context.Background(), "storefront/DB_CREDENTIALS")
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	assert.Equal(t, 1, api.calls)
}

func TestSecretsClient_NoStringValue(t *testing.T) {
	_, err := NewSecretsClientWithAPI(&fakeSecrets{}).GetSecret(context.Background(), "x")
	assert.Error(t, err)
}

type fakeLogs struct {
	groupErr error
	streams  []string
	events   []string
	token    int
}

func (f *fakeLogs) CreateLogGroup(context.Context, *cloudwatchlogs.CreateLogGroupInput, ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	return &cloudwatchlogs.CreateLogGroupOutput{}, f.groupErr
}

func (f *fakeLogs) PutRetentionPolicy(context.Context, *cloudwatchlogs.PutRetentionPolicyInput, ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error) {
	return &cloudwatchlogs.PutRetentionPolicyOutput{}, nil
}

func (f *fakeLogs) CreateLogStream(_ context.Context, in *cloudwatchlogs.CreateLogStreamInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	f.streams = append(f.streams, *in.LogStreamName)
	return &cloudwatchlogs.CreateLogStreamOutput{}, nil
}

func (f *fakeLogs) PutLogEvents(_ context.Context, in *cloudwatchlogs.PutLogEventsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error) {
	for _, e := range in.LogEvents {
		f.events = append(f.events, *e.Message)
	}
	f.token++
	next := string(rune('a' + f.token))
	return &cloudwatchlogs.PutLogEventsOutput{NextSequenceToken: &next}, nil
}

func TestCloudWatchLogsWriter(t *testing.T) {
	api := &fakeLogs{groupErr: &logtypes.ResourceAlreadyExistsException{}}
	w, err := NewCloudWatchLogsWriterWithAPI(context.Background(), api, "", "storefront")
	require.NoError(t, err)
	require.Len(t, api.streams, 1)
	assert.Contains(t, api.streams[0], "storefront-")

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []string{"hello"}, api.events)
	assert.NoError(t, w.Sync())
}

func TestCloudWatchLogsWriter_GroupError(t *testing.T) {
	api := &fakeLogs{groupErr: errors.New("access denied")}
	_, err := NewCloudWatchLogsWriterWithAPI(context.Background(), api, "/x", "storefront")
	assert.Error(t, err)
}
