package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/camachodev/courtfile/internal/booking"
	"github.com/camachodev/courtfile/internal/catalog"
	"github.com/camachodev/courtfile/internal/identity"
	"github.com/camachodev/courtfile/pkg/flatfile"
)

type httpHandler struct {
	logger   *zap.Logger
	identity *identity.Service
	booking  *booking.Service
	catalog  *catalog.Service
	stores   []*flatfile.Store
}

func (handler *httpHandler) handleRoot(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Court reservation and product API",
		"endpoints": gin.H{
			"auth": gin.H{
				"register": "/register",
				"login":    "/login",
				"users":    "/users",
			},
			"sessions": gin.H{
				"register": "/api/register",
				"login":    "/api/login",
				"verify":   "/api/verify",
			},
			"courts": gin.H{
				"all":      "/courts",
				"by_sport": "/courts/{sport_id}",
			},
			"reservations": gin.H{
				"create":        "/reservations",
				"all":           "/reservations",
				"by_court_date": "/reservations/{court_id}/{date}",
				"by_user":       "/reservations/user/{user_id}",
				"cancel":        "/reservations/{id}",
			},
			"products": "/api/products",
			"stats":    "/api/stats",
		},
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *httpHandler) handleRegister(ctx *gin.Context) {
	var request registerRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	user, err := handler.identity.Register(ctx.Request.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, user.Public())
}

func (handler *httpHandler) handleLogin(ctx *gin.Context) {
	var request loginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	user, err := handler.identity.Login(ctx.Request.Context(), request.Email, request.Password)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user.Public())
}

func (handler *httpHandler) handleListUsers(ctx *gin.Context) {
	users, err := handler.identity.ListUsers(ctx.Request.Context())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, users)
}

// sessionUserResponse is the /api auth payload: the public identity plus the
// freshly issued token.
type sessionUserResponse struct {
	identity.PublicUser
	Token string `json:"token"`
}

func (handler *httpHandler) handleSessionRegister(ctx *gin.Context) {
	var request registerRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	user, err := handler.identity.Register(ctx.Request.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	session, err := handler.identity.IssueSession(ctx.Request.Context(), user.ID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, sessionUserResponse{PublicUser: user.Public(), Token: session.Token})
}

func (handler *httpHandler) handleSessionLogin(ctx *gin.Context) {
	var request loginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	user, err := handler.identity.Login(ctx.Request.Context(), request.Email, request.Password)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	session, err := handler.identity.IssueSession(ctx.Request.Context(), user.ID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessionUserResponse{PublicUser: user.Public(), Token: session.Token})
}

func (handler *httpHandler) handleVerify(ctx *gin.Context) {
	user, err := handler.identity.Verify(ctx.Request.Context(), ctx.Query("token"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"valid": true, "user": user})
}

func (handler *httpHandler) handleStats(ctx *gin.Context) {
	stats, err := handler.identity.Stats(ctx.Request.Context())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

func (handler *httpHandler) handleListCourts(ctx *gin.Context) {
	courts, err := handler.booking.ListCourts(ctx.Request.Context())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, courts)
}

func (handler *httpHandler) handleCourtsBySport(ctx *gin.Context) {
	courts, err := handler.booking.CourtsBySport(ctx.Request.Context(), ctx.Param("sport_id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, courts)
}

type reservationRequest struct {
	UserID    string `json:"user_id"`
	CourtID   string `json:"court_id"`
	CourtName string `json:"court_name"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Price     int    `json:"price"`
}

func (handler *httpHandler) handleCreateReservation(ctx *gin.Context) {
	var request reservationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	reservation, err := handler.booking.Reserve(ctx.Request.Context(), booking.ReservationInput{
		UserID:    request.UserID,
		CourtID:   request.CourtID,
		CourtName: request.CourtName,
		Date:      request.Date,
		Time:      request.Time,
		Price:     request.Price,
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, reservation)
}

func (handler *httpHandler) handleListReservations(ctx *gin.Context) {
	reservations, err := handler.booking.ListAll(ctx.Request.Context())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, reservations)
}

func (handler *httpHandler) handleCourtReservations(ctx *gin.Context) {
	slots, err := handler.booking.ForCourtDate(ctx.Request.Context(), ctx.Param("court_id"), ctx.Param("date"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, slots)
}

func (handler *httpHandler) handleUserReservations(ctx *gin.Context) {
	reservations, err := handler.booking.ForUser(ctx.Request.Context(), ctx.Param("user_id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, reservations)
}

func (handler *httpHandler) handleCancelReservation(ctx *gin.Context) {
	reservationID := ctx.Param("id")
	if err := handler.booking.Cancel(ctx.Request.Context(), reservationID); err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "reservation cancelled", "reservation_id": reservationID})
}

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

// callerEmail is the original services' tenancy contract: the caller names
// itself through an email query parameter. There is no further auth layer.
func callerEmail(ctx *gin.Context) (string, bool) {
	email := ctx.Query("email")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "email is required"))
		return "", false
	}
	return email, true
}

func (handler *httpHandler) handleCreateProduct(ctx *gin.Context) {
	email, ok := callerEmail(ctx)
	if !ok {
		return
	}
	var request productRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	product, err := handler.catalog.Create(ctx.Request.Context(), email, catalog.CreateInput{
		Name:        request.Name,
		Description: request.Description,
		Price:       request.Price,
		Category:    request.Category,
		Stock:       request.Stock,
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, product)
}

func (handler *httpHandler) handleListProducts(ctx *gin.Context) {
	email, ok := callerEmail(ctx)
	if !ok {
		return
	}
	products, err := handler.catalog.ListForOwner(ctx.Request.Context(), email)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

func (handler *httpHandler) handleGetProduct(ctx *gin.Context) {
	email, ok := callerEmail(ctx)
	if !ok {
		return
	}
	product, err := handler.catalog.Get(ctx.Request.Context(), ctx.Param("id"), email)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func (handler *httpHandler) handleUpdateProduct(ctx *gin.Context) {
	email, ok := callerEmail(ctx)
	if !ok {
		return
	}
	var patch catalog.Patch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	product, err := handler.catalog.Update(ctx.Request.Context(), ctx.Param("id"), email, patch)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func (handler *httpHandler) handleDeleteProduct(ctx *gin.Context) {
	email, ok := callerEmail(ctx)
	if !ok {
		return
	}
	if err := handler.catalog.Delete(ctx.Request.Context(), ctx.Param("id"), email); err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// respondError maps domain errors onto HTTP statuses. Anything unrecognized
// is an internal failure and is logged with its cause; callers only see a
// generic message.
func (handler *httpHandler) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, identity.ErrShortName),
		errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, booking.ErrBadDate),
		errors.Is(err, booking.ErrPastDate),
		errors.Is(err, booking.ErrInvalidReservation),
		errors.Is(err, catalog.ErrInvalidProduct):
		ctx.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
	case errors.Is(err, identity.ErrDuplicateEmail):
		ctx.JSON(http.StatusBadRequest, errorResponse("duplicate_email", err.Error()))
	case errors.Is(err, identity.ErrBadCredentials):
		ctx.JSON(http.StatusUnauthorized, errorResponse("bad_credentials", "invalid email or password"))
	case errors.Is(err, identity.ErrInvalidToken):
		ctx.JSON(http.StatusUnauthorized, errorResponse("invalid_token", "invalid or expired token"))
	case errors.Is(err, booking.ErrUnknownSport),
		errors.Is(err, booking.ErrUnknownReservation),
		errors.Is(err, catalog.ErrProductNotFound):
		ctx.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
	case errors.Is(err, booking.ErrSlotTaken):
		ctx.JSON(http.StatusConflict, errorResponse("slot_conflict", err.Error()))
	default:
		handler.logger.Error("request failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("internal_error", "internal server error"))
	}
}

func errorResponse(code string, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}
