package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stakepoint-labs/backend/pkg/errorx"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) response {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func writeResult(ctx context.Context, w http.ResponseWriter, res *result) {
	var resp response
	if res.err != nil {
		resp = newErrorResponse(res.err)
	} else {
		resp = newResponse(res.resp)
	}

	if err := WriteJson(w, resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func WriteJson(w http.ResponseWriter, resp any) error {
	w.Header().Set("Content-Type", "application/json")

	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
