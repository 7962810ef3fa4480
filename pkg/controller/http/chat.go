package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/usecase"
	"github.com/vesperants/najir-agent/pkg/utils/errutil"
	"github.com/vesperants/najir-agent/pkg/utils/safe"
)

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, data)
}

func chatHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Message         string   `json:"message"`
		SelectedCaseIDs []string `json:"selected_case_ids,omitempty"`
		UserID          string   `json:"user_id,omitempty"`
		ConversationID  string   `json:"conversation_id,omitempty"`
	}
	type response struct {
		Reply          string `json:"reply"`
		UserID         string `json:"user_id"`
		ConversationID string `json:"conversation_id"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode chat request"), http.StatusBadRequest)
			return
		}
		if req.Message == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.New("message must not be empty"), http.StatusBadRequest)
			return
		}

		// anonymous callers get a fresh identity per request
		if req.UserID == "" {
			req.UserID = uuid.New().String()
		}
		if req.ConversationID == "" {
			req.ConversationID = model.DefaultConversationID.String()
		}

		reply := uc.Chat.Chat(r.Context(),
			types.UserID(req.UserID),
			types.ConversationID(req.ConversationID),
			req.Message,
			types.CaseIDsFromStrings(req.SelectedCaseIDs),
		)

		writeJSON(w, r, response{
			Reply:          reply,
			UserID:         req.UserID,
			ConversationID: req.ConversationID,
		})
	}
}

func caseSearchHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Query     string `json:"query"`
		PageToken string `json:"page_token,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode search request"), http.StatusBadRequest)
			return
		}

		page, err := uc.Search.Search(r.Context(), req.Query, req.PageToken)
		if err != nil {
			if errors.Is(err, usecase.ErrEmptyQuery) {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(w, r, page)
	}
}

func caseDetailsHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		CaseIDs  []string `json:"case_ids"`
		Question string   `json:"question"`
	}
	type response struct {
		CaseDetails []*model.CaseResult `json:"case_details"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode details request"), http.StatusBadRequest)
			return
		}

		results, err := uc.Detail.Details(r.Context(), types.CaseIDsFromStrings(req.CaseIDs), req.Question)
		if err != nil {
			if errors.Is(err, usecase.ErrNoCaseIDs) {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(w, r, response{CaseDetails: results})
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}
