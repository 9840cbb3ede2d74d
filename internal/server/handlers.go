package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/Roky360/fotogo-bakcend/internal/protocol"
	"github.com/Roky360/fotogo-bakcend/pkg/service"
)

// errBadRequest marks a request missing a required argument. Mapped to
// StatusBadRequest at the dispatch boundary.
var errBadRequest = errors.New("bad request")

// NewHandlerRegistry builds the full operation registry over the service.
// Called once during startup; the result is immutable.
func NewHandlerRegistry(svc *service.Service) *Registry {
	r := NewRegistry()

	r.Register(protocol.UserAuth, func(ctx context.Context, req *protocol.Request) (any, error) {
		// Authentication already happened at the gate; reaching this
		// handler is the success condition.
		return nil, nil
	})

	r.Register(protocol.CheckUserExists, func(ctx context.Context, req *protocol.Request) (any, error) {
		return svc.CheckUser(ctx, req.UserID)
	})

	r.RegisterWithStatus(protocol.CreateAccount, func(ctx context.Context, req *protocol.Request) (any, error) {
		id, ok := IdentityFromContext(ctx)
		if !ok {
			return nil, fmt.Errorf("no verified identity in context")
		}
		return nil, svc.CreateAccount(ctx, *id)
	}, protocol.StatusCreated)

	r.Register(protocol.DeleteAccount, func(ctx context.Context, req *protocol.Request) (any, error) {
		return nil, svc.DeleteAccount(ctx, req.UserID)
	})

	r.RegisterWithStatus(protocol.CreateAlbum, func(ctx context.Context, req *protocol.Request) (any, error) {
		if req.Args.AlbumData == nil {
			return nil, fmt.Errorf("%w: missing album_data", errBadRequest)
		}
		return svc.CreateAlbum(ctx, req.UserID, albumInput(req.Args.AlbumData))
	}, protocol.StatusCreated)

	r.Register(protocol.SyncAlbumDetails, func(ctx context.Context, req *protocol.Request) (any, error) {
		return svc.SyncAlbums(ctx, req.UserID, req.Args.Albums)
	})

	r.Register(protocol.GetAlbumContents, func(ctx context.Context, req *protocol.Request) (any, error) {
		if req.Args.AlbumID == "" {
			return nil, fmt.Errorf("%w: missing album_id", errBadRequest)
		}
		return svc.GetAlbumContents(ctx, req.UserID, req.Args.AlbumID)
	})

	r.Register(protocol.UpdateAlbum, func(ctx context.Context, req *protocol.Request) (any, error) {
		if req.Args.AlbumID == "" || req.Args.AlbumData == nil {
			return nil, fmt.Errorf("%w: missing album_id or album_data", errBadRequest)
		}
		return nil, svc.UpdateAlbum(ctx, req.UserID, req.Args.AlbumID, albumInput(req.Args.AlbumData))
	})

	r.RegisterWithStatus(protocol.AddToAlbum, func(ctx context.Context, req *protocol.Request) (any, error) {
		if req.Args.AlbumID == "" {
			return nil, fmt.Errorf("%w: missing album_id", errBadRequest)
		}
		uploads := make([]service.ImageUpload, len(req.Payload))
		for i, item := range req.Payload {
			if item.FileName == "" {
				return nil, fmt.Errorf("%w: payload item missing file_name", errBadRequest)
			}
			uploads[i] = service.ImageUpload{
				FileName:  item.FileName,
				Timestamp: item.Timestamp,
				Location:  item.Location,
				Tag:       item.Tag,
				Data:      item.Data,
			}
		}
		return nil, svc.AddToAlbum(ctx, req.UserID, req.Args.AlbumID, uploads, req.Args.ImageIDs)
	}, protocol.StatusCreated)

	r.Register(protocol.RemoveFromAlbum, func(ctx context.Context, req *protocol.Request) (any, error) {
		if req.Args.AlbumID == "" || len(req.Args.ImageIDs) == 0 {
			return nil, fmt.Errorf("%w: missing album_id or images_id", errBadRequest)
		}
		return svc.RemoveFromAlbum(ctx, req.UserID, req.Args.AlbumID, req.Args.ImageIDs)
	})

	r.Register(protocol.DeleteAlbum, func(ctx context.Context, req *protocol.Request) (any, error) {
		if req.Args.AlbumID == "" {
			return nil, fmt.Errorf("%w: missing album_id", errBadRequest)
		}
		return svc.DeleteAlbum(ctx, req.UserID, req.Args.AlbumID)
	})

	r.Register(protocol.GenerateStatistics, func(ctx context.Context, req *protocol.Request) (any, error) {
		return svc.Statistics(ctx, req.UserID)
	})

	r.Register(protocol.GetUsers, func(ctx context.Context, req *protocol.Request) (any, error) {
		return svc.Users(ctx, req.UserID)
	})

	return r
}

func albumInput(data *protocol.AlbumData) service.AlbumInput {
	return service.AlbumInput{
		Name:           data.Name,
		DateRange:      data.DateRange,
		IsBuilt:        data.IsBuilt,
		Tags:           data.Tags,
		PermittedUsers: data.PermittedUsers,
	}
}
