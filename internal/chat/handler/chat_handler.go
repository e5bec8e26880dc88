package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"GoConvo/internal/chat/service"
	"GoConvo/internal/common"
	"GoConvo/internal/model"
	"GoConvo/internal/user"
)

// IdentityResolver is the external identity-provider boundary: it either
// yields the authenticated identity for a request or reports the request
// as unauthenticated.
type IdentityResolver interface {
	ResolveAuthenticatedUser(r *http.Request) (*user.Identity, error)
}

type ChatHandler struct {
	chats    service.ChatService
	users    user.UserService
	resolver IdentityResolver
}

func NewChatHandler(chats service.ChatService, users user.UserService, resolver IdentityResolver) *ChatHandler {
	return &ChatHandler{chats: chats, users: users, resolver: resolver}
}

// RegisterRoutes mounts every API route. Everything except sign-in sits
// behind the auth middleware.
func (h *ChatHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/auth/signin", h.SignIn).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(common.AuthMiddleware)

	api.HandleFunc("/users/search", h.SearchUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", h.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/me", h.UpdateProfile).Methods(http.MethodPut)
	api.HandleFunc("/me/username", h.SetUsername).Methods(http.MethodPut)

	api.HandleFunc("/conversations", h.ListConversations).Methods(http.MethodGet)
	api.HandleFunc("/chats", h.CreatePendingChat).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id}", h.GetChat).Methods(http.MethodGet)
	api.HandleFunc("/chats/{id}/join", h.JoinChat).Methods(http.MethodPost)

	api.HandleFunc("/groups", h.CreateGroup).Methods(http.MethodPost)
	api.HandleFunc("/rooms", h.CreateRoom).Methods(http.MethodPost)
	api.HandleFunc("/rooms", h.ListRooms).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}/join", h.JoinRoom).Methods(http.MethodPost)

	api.HandleFunc("/messages", h.SendMessage).Methods(http.MethodPost)
	api.HandleFunc("/messages", h.ListMessages).Methods(http.MethodGet)
	api.HandleFunc("/messages/{id}", h.DeleteMessage).Methods(http.MethodDelete)
	api.HandleFunc("/messages/{id}/reactions", h.ToggleReaction).Methods(http.MethodPost)

	api.HandleFunc("/blocks", h.ListBlocked).Methods(http.MethodGet)
	api.HandleFunc("/blocks/{id}", h.Block).Methods(http.MethodPost)
	api.HandleFunc("/blocks/{id}", h.Unblock).Methods(http.MethodDelete)

	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(common.AuthMiddleware)
	ws.HandleFunc("/messages", h.StreamMessages).Methods(http.MethodGet)
	ws.HandleFunc("/conversations", h.StreamConversations).Methods(http.MethodGet)
}

// SignIn resolves the caller through the identity provider, bootstraps the
// user record on first sign-in, and issues a bearer token.
func (h *ChatHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ident, err := h.resolver.ResolveAuthenticatedUser(r)
	if err != nil {
		common.WriteError(w, http.StatusUnauthorized, "not authenticated", "")
		return
	}

	u, err := h.users.GetOrCreateUser(r.Context(), *ident)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	username := ""
	if u.Username != nil {
		username = *u.Username
	}
	token, err := common.GenerateToken(u.ID, username)
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, "failed to issue token", "")
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

func (h *ChatHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetProfile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, u)
}

func (h *ChatHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	users, err := h.users.SearchUsers(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, users)
}

func (h *ChatHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DisplayName string  `json:"display_name"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	u, err := h.users.UpdateProfile(r.Context(), common.UserIDFromContext(r.Context()), body.DisplayName, body.AvatarURL)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, u)
}

func (h *ChatHandler) SetUsername(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	u, err := h.users.SetUsername(r.Context(), common.UserIDFromContext(r.Context()), body.Username)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, u)
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	views, err := h.chats.ListConversations(r.Context(), common.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, views)
}

func (h *ChatHandler) CreatePendingChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.chats.CreatePendingChat(r.Context(), common.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, chat)
}

func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.chats.GetChat(r.Context(), mux.Vars(r)["id"], common.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, chat)
}

// JoinChat distinguishes a malformed link from a chat that no longer
// exists, without echoing anything the link did not already contain.
func (h *ChatHandler) JoinChat(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["id"]
	if _, err := uuid.Parse(chatID); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid chat link", "")
		return
	}
	chat, err := h.chats.JoinChat(r.Context(), chatID, common.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			common.WriteError(w, http.StatusNotFound, "this chat does not exist", "")
			return
		}
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name      string   `json:"name"`
		MemberIDs []string `json:"member_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	group, err := h.chats.CreateGroup(r.Context(), common.UserIDFromContext(r.Context()), body.Name, body.MemberIDs)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, group)
}

func (h *ChatHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name      string  `json:"name"`
		Topic     *string `json:"topic"`
		Temporary bool    `json:"temporary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	room, err := h.chats.CreateRoom(r.Context(), common.UserIDFromContext(r.Context()), body.Name, body.Topic, body.Temporary)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, room)
}

func (h *ChatHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.chats.ListRooms(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, rooms)
}

func (h *ChatHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	if _, err := uuid.Parse(roomID); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid room link", "")
		return
	}
	group, err := h.chats.JoinRoom(r.Context(), roomID, common.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			common.WriteError(w, http.StatusNotFound, "this room does not exist", "")
			return
		}
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, group)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChatID    *string `json:"chat_id"`
		GroupID   *string `json:"group_id"`
		Content   string  `json:"content"`
		ReplyToID *string `json:"reply_to_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if body.ChatID != nil && body.GroupID != nil {
		common.WriteError(w, http.StatusBadRequest, "message cannot target both a chat and a group", "")
		return
	}
	ref := model.RefFromIDs(body.ChatID, body.GroupID)
	if ref.IsZero() {
		common.WriteError(w, http.StatusBadRequest, "chat_id or group_id is required", "")
		return
	}

	msg, err := h.chats.SendMessage(r.Context(), common.UserIDFromContext(r.Context()), ref, body.Content, body.ReplyToID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	// API responses never expose ciphertext.
	out := *msg
	out.Content = body.Content
	common.WriteJSON(w, http.StatusCreated, out)
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	q, ok := messageQueryFromRequest(w, r)
	if !ok {
		return
	}
	views, err := h.chats.ListMessages(r.Context(), common.UserIDFromContext(r.Context()), q)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, views)
}

func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	err := h.chats.DeleteMessage(r.Context(), mux.Vars(r)["id"], common.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *ChatHandler) ToggleReaction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Emoji string `json:"emoji"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	added, err := h.chats.ToggleReaction(r.Context(), mux.Vars(r)["id"], common.UserIDFromContext(r.Context()), body.Emoji)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"added": added})
}

func (h *ChatHandler) Block(w http.ResponseWriter, r *http.Request) {
	err := h.chats.BlockUser(r.Context(), common.UserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"blocked": true})
}

func (h *ChatHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	err := h.chats.UnblockUser(r.Context(), common.UserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"blocked": false})
}

func (h *ChatHandler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	rows, err := h.chats.ListBlockedUsers(r.Context(), common.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, rows)
}

func (h *ChatHandler) writeServiceError(w http.ResponseWriter, err error) {
	common.WriteError(w, common.StatusForError(err), err.Error(), "")
}

func messageQueryFromRequest(w http.ResponseWriter, r *http.Request) (model.MessageQuery, bool) {
	params := r.URL.Query()

	var chatID, groupID *string
	if v := params.Get("chat_id"); v != "" {
		chatID = &v
	}
	if v := params.Get("group_id"); v != "" {
		groupID = &v
	}
	if chatID != nil && groupID != nil {
		common.WriteError(w, http.StatusBadRequest, "query cannot target both a chat and a group", "")
		return model.MessageQuery{}, false
	}
	ref := model.RefFromIDs(chatID, groupID)
	if ref.IsZero() {
		common.WriteError(w, http.StatusBadRequest, "chat_id or group_id is required", "")
		return model.MessageQuery{}, false
	}

	q := model.MessageQuery{Conversation: ref}
	if v := params.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Limit = n
		}
	}
	if v := params.Get("after"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, "invalid after cursor", "")
			return model.MessageQuery{}, false
		}
		q.After = &t
	}
	return q, true
}
