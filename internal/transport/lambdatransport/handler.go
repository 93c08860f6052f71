package lambdatransport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/awmpietro/golang-vcd-transaction-case/internal/app"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/transport/extractdto"
)

type Handler struct {
	svc app.ExtractService
}

func NewHandler(svc app.ExtractService) *Handler {
	return &Handler{svc: svc}
}

// Extract assumes API Gateway already routed POST /extract here.
func (h *Handler) Extract(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := readBody(req)
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid body", "details": err.Error()}), nil
	}

	var in extractdto.ExtractRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()}), nil
	}

	out, err := h.svc.Extract(ctx, in.App())
	if err != nil {
		return jsonResp(http.StatusBadRequest, extractdto.ErrorBody("extract failed", err, out)), nil
	}
	return jsonResp(http.StatusOK, out), nil
}

func readBody(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if req.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(req.Body)
	}
	return []byte(req.Body), nil
}

func jsonResp(status int, body any) events.APIGatewayV2HTTPResponse {
	b, _ := json.Marshal(body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       string(b),
	}
}
