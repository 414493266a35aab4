package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Freeeeeet/time_tracker/internal/service"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error      string `json:"error"`
	ExistingID int64  `json:"existing_id,omitempty"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// writeJSON пишет ответ и логирует если не удалось
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeError переводит ошибку сервиса в HTTP статус.
// Внутренние ошибки логируются, клиент получает общее сообщение.
func (h *Handlers) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: "internal server error"}

	if msg, ok := service.PublicMessage(err); ok && status != http.StatusInternalServerError {
		resp.Error = msg
	}

	var svcErr *service.Error
	if errors.As(err, &svcErr) && errors.Is(err, service.ErrConflict) {
		resp.ExistingID = svcErr.ExistingID
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("op", op), zap.Error(err))
	} else {
		h.logger.Debug("Request rejected", zap.String("op", op), zap.Int("status", status), zap.Error(err))
	}

	h.writeJSON(w, status, resp)
}

func (h *Handlers) badRequest(w http.ResponseWriter, op, msg string) {
	h.logger.Debug("Bad request", zap.String("op", op), zap.String("reason", msg))
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON читает тело запроса в dst
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("empty request body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// FlexID принимает id как JSON число или строку с числом ("12")
type FlexID int64

func (id *FlexID) UnmarshalJSON(data []byte) error {
	raw, err := decodeScalar(data)
	if err != nil {
		return err
	}

	switch v := raw.(type) {
	case json.Number, string:
		n, err := parseInt(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid id %s", data)
		}
		*id = FlexID(n)
		return nil
	default:
		return fmt.Errorf("invalid id %s", data)
	}
}

// Ptr возвращает *int64 или nil для nil receiver
func (id *FlexID) Ptr() *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}

// FlexInt принимает целое число как JSON число или строку
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	raw, err := decodeScalar(data)
	if err != nil {
		return err
	}

	switch v := raw.(type) {
	case json.Number, string:
		i, err := parseInt(v)
		if err != nil {
			return fmt.Errorf("invalid number %s", data)
		}
		*n = FlexInt(i)
		return nil
	default:
		return fmt.Errorf("invalid number %s", data)
	}
}

// FlexString принимает строку или число (Telegram ID приходит и так, и так)
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	raw, err := decodeScalar(data)
	if err != nil {
		return err
	}

	switch v := raw.(type) {
	case json.Number, string:
		str, err := cast.ToStringE(v)
		if err != nil {
			return fmt.Errorf("invalid value %s", data)
		}
		*s = FlexString(strings.TrimSpace(str))
		return nil
	case nil:
		*s = ""
		return nil
	default:
		return fmt.Errorf("invalid value %s", data)
	}
}

func decodeScalar(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s), nil
	}
	return raw, nil
}

// parseInt разбирает десятичное целое из строки или json.Number.
// "010" - это 10, а не восьмеричное 8.
func parseInt(v any) (int64, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// pathID разбирает числовой параметр пути
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := parseInt(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// queryBool разбирает флаг вида ?force=true / ?force=1
func queryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := cast.ToBoolE(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}
