package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

func TestSESClient_SendHTMLEmail(t *testing.T) {
	fake := &fakeSES{}
	client := NewSESClientWithAPI(fake, "courses@example.com")

	id, err := client.SendHTMLEmail(context.Background(), "learner@example.com", "Your courses", "<p>hi</p>", "hi")
	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)
	assert.Equal(t, "courses@example.com", aws.ToString(fake.input.Source))
	assert.Equal(t, []string{"learner@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "hi", aws.ToString(fake.input.Message.Body.Text.Data))

	_, err = client.SendHTMLEmail(context.Background(), "", "s", "h", "t")
	assert.Error(t, err)

	fake.err = errors.New("throttled")
	_, err = client.SendHTMLEmail(context.Background(), "learner@example.com", "s", "h", "t")
	assert.ErrorContains(t, err, "throttled")
}

func TestSNSClient_SendSMS(t *testing.T) {
	fake := &fakeSNS{}
	id, err := NewSNSClientWithAPI(fake).SendSMS(context.Background(), "+15551234567", "3 new courses")
	require.NoError(t, err)
	assert.Equal(t, "sns-1", id)
	assert.Equal(t, "+15551234567", aws.ToString(fake.input.PhoneNumber))
	assert.Equal(t, "Transactional", aws.ToString(fake.input.MessageAttributes["AWS.SNS.SMS.SMSType"].StringValue))
}
