package cleanup

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type recordingSQS struct {
	sent []*sqs.SendMessageInput
}

func (r *recordingSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	r.sent = append(r.sent, params)
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func (r *recordingSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{}, nil
}

func (r *recordingSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	return &sqs.DeleteMessageOutput{}, nil
}

func TestSQSClientSendEncodesMessage(t *testing.T) {
	api := &recordingSQS{}
	client := &SQSClient{API: api, QueueURL: "https://sqs.local/cleanup"}

	if err := client.Send(context.Background(), NewMessage(KindViewEvents, "p1", "", "req-1")); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(api.sent))
	}
	if aws.ToString(api.sent[0].QueueUrl) != "https://sqs.local/cleanup" {
		t.Fatalf("unexpected queue url: %s", aws.ToString(api.sent[0].QueueUrl))
	}
	msg, _, err := ParseMessage(aws.ToString(api.sent[0].MessageBody))
	if err != nil {
		t.Fatalf("parse sent body: %v", err)
	}
	if msg.Kind != KindViewEvents || msg.PortfolioID != "p1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}
