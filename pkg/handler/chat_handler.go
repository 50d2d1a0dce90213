package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/omicsatlas/pkg/chat"
	"github.com/yumyai/omicsatlas/pkg/handler/request"
)

const msgContextNotFound = "Context record not found"

func (dbctx *DBContext) Chat(w http.ResponseWriter, r *http.Request) {

	var body request.ChatRequest
	if err := request.DecodeJSON(w, r, &body); err != nil {
		fail(w, r, err, "", "chat")
		return
	}
	if err := body.Validate(); err != nil {
		fail(w, r, err, "", "chat")
		return
	}

	var ref chat.Ref
	if body.Context != nil {
		ref = *body.Context
	}

	record, err := chat.Load(r.Context(), dbctx.DB, ref)
	if err != nil {
		fail(w, r, err, msgContextNotFound, "chat",
			zap.String("context_type", ref.Type),
			zap.String("context_id", ref.ID),
		)
		return
	}

	writeJSON(w, http.StatusOK, chat.Respond(body.Message, record))
}
