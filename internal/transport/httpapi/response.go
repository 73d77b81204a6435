package httpapi

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

// Сообщения успешных ответов.
const (
	MessageExecuted = "executed"
	MessageDeleted  = "deleted"
	// MessageInternal отдаётся клиенту вместо текста внутренней ошибки.
	MessageInternal = "internal server error"
)

// Response - конверт всех ответов API. HTTP-статус совпадает с Status.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Count   int    `json:"count"`
	Data    any    `json:"data"`
}

func executed[T any](data []T) Response {
	if data == nil {
		data = []T{}
	}
	return Response{Status: http.StatusOK, Message: MessageExecuted, Count: len(data), Data: data}
}

func failed(err error) Response {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		message = MessageInternal
	}
	return Response{Status: status, Message: message, Data: []any{}}
}

// StatusFor переводит вид ошибки каталога в HTTP-статус.
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAlreadyExists, domain.KindIsBeingUsed, domain.KindInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeResponse(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Error("write response")
	}
}
