package alerts

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/rajasaad7/linkboard/internal/logging"
)

var (
	client *asynq.Client
	server *asynq.Server
)

// Init starts the Asynq server and initializes a shared client.
func Init(redisAddr string) {
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPayoutSettled, handlePayoutSettled)
	mux.HandleFunc(TaskPayoutFailed, handlePayoutFailed)
	mux.HandleFunc(TaskOrderAttention, handleOrderAttention)
	mux.HandleFunc(TaskContactReceived, handleContactReceived)
	mux.HandleFunc(TaskBugReceived, handleBugReceived)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"emails": 10,
			"alerts": 5,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			logging.L.Error("asynq server stopped", zap.Error(err))
		}
	}()

	logging.L.Info("asynq initialized", zap.String("addr", redisAddr))
}

// Close releases the client and stops the server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

func handlePayoutSettled(_ context.Context, t *asynq.Task) error {
	var p PayoutSettledPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	return SendEmail(p.Envelope)
}

func handlePayoutFailed(_ context.Context, t *asynq.Task) error {
	var p PayoutFailedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	return SendEmail(p.Envelope)
}

func handleOrderAttention(_ context.Context, t *asynq.Task) error {
	var p OrderAttentionPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	return SendEmail(p.Envelope)
}

func handleContactReceived(_ context.Context, t *asynq.Task) error {
	var p ContactReceivedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	return SendEmail(p.Envelope)
}

func handleBugReceived(_ context.Context, t *asynq.Task) error {
	var p BugReceivedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	return SendEmail(p.Envelope)
}
