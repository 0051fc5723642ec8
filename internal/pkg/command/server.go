package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/petcare-sagas/internal/pkg/interceptors"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

// HandlerFunc handles one command. The returned value is sent back as JSON.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// IdempotencyStore keeps replies of create-type commands keyed by the
// caller's idempotency key. cache.Cache satisfies it.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Server routes incoming commands of one service to their handlers.
type Server struct {
	service  string
	handlers map[string]HandlerFunc
	once     map[string]bool
	store    IdempotencyStore
	storeTTL time.Duration
}

type Option func(*Server)

// WithIdempotencyStore enables reply deduplication for commands registered
// with HandleOnce.
func WithIdempotencyStore(store IdempotencyStore, ttl time.Duration) Option {
	return func(s *Server) {
		s.store = store
		s.storeTTL = ttl
	}
}

func NewServer(service string, opts ...Option) *Server {
	s := &Server{
		service:  service,
		handlers: make(map[string]HandlerFunc),
		once:     make(map[string]bool),
		storeTTL: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handle(command string, h HandlerFunc) {
	s.handlers[command] = h
}

// HandleOnce registers a handler whose reply is replayed for repeated calls
// carrying the same idempotency key.
func (s *Server) HandleOnce(command string, h HandlerFunc) {
	s.handlers[command] = h
	s.once[command] = true
}

// Register binds a typed handler to command.
func Register[Req, Resp any](s *Server, command string, fn func(context.Context, Req) (Resp, error)) {
	s.Handle(command, typed(command, fn))
}

// RegisterOnce is Register with idempotency-key deduplication.
func RegisterOnce[Req, Resp any](s *Server, command string, fn func(context.Context, Req) (Resp, error)) {
	s.HandleOnce(command, typed(command, fn))
}

func typed[Req, Resp any](command string, fn func(context.Context, Req) (Resp, error)) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req Req
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, rpcerr.Invalidf("%s: malformed payload: %v", command, err)
		}
		return fn(ctx, req)
	}
}

// ServerOptions returns the grpc options that mount s on a grpc.Server.
func (s *Server) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.UnknownServiceHandler(s.serve),
		grpc.MaxRecvMsgSize(MaxMessageSize),
		grpc.MaxSendMsgSize(MaxMessageSize),
	}
}

func (s *Server) serve(_ any, stream grpc.ServerStream) error {
	method, ok := grpc.MethodFromServerStream(stream)
	if !ok {
		return status.Error(codes.Internal, "command: no method in stream")
	}
	service, command := splitMethod(method)
	if service != s.service {
		return status.Errorf(codes.Unimplemented, "unknown service %q", service)
	}
	h, ok := s.handlers[command]
	if !ok {
		return status.Errorf(codes.Unimplemented, "unknown command %q", command)
	}

	var req structpb.Value
	if err := stream.RecvMsg(&req); err != nil {
		return err
	}
	payload, err := decodeJSON(&req)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	ctx := stream.Context()
	reply, err := s.call(ctx, command, h, payload)
	if err != nil {
		slog.WarnContext(ctx, "command failed", "command", command, "error", err)
		return err
	}
	return stream.SendMsg(reply)
}

func (s *Server) call(ctx context.Context, command string, h HandlerFunc, payload json.RawMessage) (*structpb.Value, error) {
	key := ""
	if s.once[command] && s.store != nil {
		if k := interceptors.IdempotencyKeyFromContext(ctx); k != "" {
			key = fmt.Sprintf("%s:idempotency:%s:%s", s.service, command, k)
		}
	}

	if key != "" {
		cached, err := s.store.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "idempotency lookup failed", "command", command, "error", err)
		} else if cached != "" {
			slog.InfoContext(ctx, "replaying command reply", "command", command)
			return encodeJSON([]byte(cached))
		}
	}

	resp, err := h(ctx, payload)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "command: marshal reply: %v", err)
	}

	if key != "" {
		if err := s.store.Set(ctx, key, string(b), s.storeTTL); err != nil {
			slog.WarnContext(ctx, "idempotency store failed", "command", command, "error", err)
		}
	}
	return encodeJSON(b)
}

func splitMethod(method string) (service, command string) {
	method = strings.TrimPrefix(method, "/")
	i := strings.LastIndex(method, "/")
	if i < 0 {
		return "", method
	}
	return method[:i], method[i+1:]
}
