package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/repository"
	"github.com/mohiuddin-khan-shiam/SkillShikhi-sub002/internal/usecase"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
// A case with an empty Message echoes the error text instead; only sentinels
// whose wrapped text is safe to show the caller may leave it empty.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// domainErrorCases is the shared sentinel-to-status mapping. Handlers prepend
// endpoint-specific cases where the same sentinel needs different wording.
var domainErrorCases = []ErrorCase{
	{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid email or password"},
	{Err: usecase.ErrAccountBanned, Status: http.StatusForbidden, Message: "account is banned"},
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "forbidden"},
	{Err: usecase.ErrNotParticipant, Status: http.StatusForbidden, Message: "not a participant of this request"},
	{Err: usecase.ErrSelfDemotion, Status: http.StatusForbidden, Message: "cannot demote your own account"},
	{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
	{Err: usecase.ErrDuplicateRequest, Status: http.StatusConflict, Message: "a pending request already exists"},
	{Err: usecase.ErrInvalidTransition, Status: http.StatusConflict, Message: "request is not in a state that allows this action"},
	{Err: usecase.ErrAlreadyFriends, Status: http.StatusConflict, Message: "already friends"},
	{Err: usecase.ErrFriendRequestExists, Status: http.StatusConflict, Message: "a friend request already exists"},
	{Err: usecase.ErrAlreadyHandled, Status: http.StatusConflict, Message: "report already handled"},
	{Err: usecase.ErrAlreadyAdmin, Status: http.StatusConflict, Message: "user is already an admin"},
	{Err: usecase.ErrNotAdmin, Status: http.StatusConflict, Message: "user is not an admin"},
	{Err: usecase.ErrAlreadyBanned, Status: http.StatusConflict, Message: "user is already banned"},
	{Err: usecase.ErrNotBanned, Status: http.StatusConflict, Message: "user is not banned"},
	{Err: usecase.ErrSessionInactive, Status: http.StatusConflict, Message: "session is not active"},
	{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
	{Err: usecase.ErrInvalidInput, Status: http.StatusBadRequest},
	{Err: usecase.ErrSelfRequest, Status: http.StatusBadRequest, Message: "cannot send a request to yourself"},
	{Err: usecase.ErrSelfFriendship, Status: http.StatusBadRequest, Message: "cannot befriend yourself"},
	{Err: usecase.ErrSelfReport, Status: http.StatusBadRequest, Message: "cannot report yourself"},
	{Err: usecase.ErrInvalidReason, Status: http.StatusBadRequest, Message: "invalid report reason"},
	{Err: usecase.ErrResetTokenInvalid, Status: http.StatusBadRequest, Message: "reset token is invalid or expired"},
	{Err: usecase.ErrNoFriendship, Status: http.StatusNotFound, Message: "no such friendship"},
	{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "resource not found"},
}

// RespondWithMappedError resolves the error against the endpoint cases first,
// then the shared domain mapping, and finally a generic fallback. Raw store
// errors never reach the response body.
func RespondWithMappedError(c *gin.Context, err error, cases ...ErrorCase) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, cs := range cases {
		if cs.Err != nil && errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, caseMessage(cs, err)))
			return
		}
	}

	for _, cs := range domainErrorCases {
		if errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, caseMessage(cs, err)))
			return
		}
	}

	c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal server error"))
}

func caseMessage(cs ErrorCase, err error) string {
	if cs.Message != "" {
		return cs.Message
	}
	return err.Error()
}
