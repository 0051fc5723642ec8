// Package command implements the command-style transport between the gateway
// and the backend services: send(command, payload) -> reply over gRPC.
//
// Every backend exposes a single gRPC service whose methods are the command
// names (e.g. /petcare.pet.v1.PetCommands/create_pet). Request and reply
// bodies are google.protobuf.Value messages holding the JSON form of the
// typed contracts in internal/contracts, so no generated stubs are needed.
package command

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/petcare-sagas/internal/pkg/interceptors"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

// Client sends commands to one backend service.
type Client struct {
	conn    grpc.ClientConnInterface
	service string
}

func NewClient(conn grpc.ClientConnInterface, service string) *Client {
	return &Client{conn: conn, service: service}
}

// Service is the gRPC service name the client talks to.
func (c *Client) Service() string { return c.service }

// Send invokes command with payload and decodes the reply into out (which may
// be nil). gRPC status errors are converted to rpcerr kinds.
func (c *Client) Send(ctx context.Context, command string, payload, out any) error {
	req, err := encode(payload)
	if err != nil {
		return &rpcerr.Error{Kind: rpcerr.ErrInvalid, Message: err.Error()}
	}

	var reply structpb.Value
	ctx = interceptors.ContextWithPropagatedID(ctx)
	err = c.conn.Invoke(ctx, Method(c.service, command), req, &reply,
		grpc.MaxCallRecvMsgSize(MaxMessageSize),
		grpc.MaxCallSendMsgSize(MaxMessageSize),
	)
	if err != nil {
		return rpcerr.FromStatus(err)
	}

	if err := decode(&reply, out); err != nil {
		return &rpcerr.Error{Kind: rpcerr.ErrInternal, Message: err.Error()}
	}
	return nil
}
