package grpc

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name         string
		handlerErr   error
		expectedCode codes.Code
		expectedLog  string
	}{
		{
			name:         "Successful Call",
			handlerErr:   nil,
			expectedCode: codes.OK,
			expectedLog:  "level=DEBUG msg=\"grpc call\"",
		},
		{
			name:         "Status Error Is Preserved",
			handlerErr:   status.Error(codes.NotFound, "asset not found"),
			expectedCode: codes.NotFound,
			expectedLog:  "code=NotFound",
		},
		{
			name:         "Plain Error Becomes Internal",
			handlerErr:   errors.New("boom"),
			expectedCode: codes.Internal,
			expectedLog:  "code=Internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
			interceptor := LoggingInterceptor(logger)

			handlerCalled := false
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				handlerCalled = true
				if tt.handlerErr != nil {
					return nil, tt.handlerErr
				}
				return "success", nil
			}

			info := &grpc.UnaryServerInfo{
				FullMethod: "/test.Service/Method",
			}

			resp, err := interceptor(context.Background(), "test-request", info, handler)

			assert.True(t, handlerCalled, "handler should always be called")
			assert.Contains(t, logs.String(), "method=/test.Service/Method")
			assert.Contains(t, logs.String(), tt.expectedLog)

			if tt.expectedCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "success", resp)
			} else {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok, "error should be a gRPC status")
				assert.Equal(t, tt.expectedCode, st.Code())
			}
		})
	}
}
