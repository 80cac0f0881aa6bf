// Package walletdelivery manages delivery layer of wallet operations.
package walletdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"
	"github.com/go-petr/wallet-ledger/pkg/web"
)

// Service provides service layer interface needed by wallet delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package walletdelivery
type Service interface {
	Credit(ctx context.Context, arg domain.CreditParams) (domain.OperationResult, error)
	Debit(ctx context.Context, arg domain.DebitParams) (domain.OperationResult, error)
	Transfer(ctx context.Context, arg domain.TransferParams) (domain.TransferTxResult, error)
}

// Handler facilitates wallet delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns wallet handler.
func NewHandler(ws Service) Handler {
	return Handler{service: ws}
}

type operationData struct {
	EntryID    int64            `json:"entry_id"`
	AccountID  int64            `json:"account_id"`
	Kind       domain.EntryKind `json:"kind"`
	Amount     string           `json:"amount"`
	NewBalance string           `json:"new_balance"`
}

type operationResponse struct {
	Data operationData `json:"data,omitempty"`
}

type insufficientBalanceResponse struct {
	Error          string `json:"error"`
	CurrentBalance string `json:"current_balance"`
	RequiredAmount string `json:"required_amount"`
}

type accountURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type operationRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

// Credit handles http request to add money to an account.
func (h *Handler) Credit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	uri, req, ok := bindOperation(gctx)
	if !ok {
		return
	}

	result, err := h.service.Credit(ctx, domain.CreditParams{
		AccountID:   uri.ID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		l.Info().Err(err).Send()
		writeOperationError(gctx, err)

		return
	}

	gctx.JSON(http.StatusCreated, operationResponse{Data: operationData{
		EntryID:    result.Entry.ID,
		AccountID:  result.Account.ID,
		Kind:       result.Entry.Kind,
		Amount:     result.Entry.Amount,
		NewBalance: result.Account.Balance,
	}})
}

// Debit handles http request to withdraw money from an account.
func (h *Handler) Debit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	uri, req, ok := bindOperation(gctx)
	if !ok {
		return
	}

	result, err := h.service.Debit(ctx, domain.DebitParams{
		AccountID:   uri.ID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		l.Info().Err(err).Send()
		writeOperationError(gctx, err)

		return
	}

	gctx.JSON(http.StatusCreated, operationResponse{Data: operationData{
		EntryID:    result.Entry.ID,
		AccountID:  result.Account.ID,
		Kind:       result.Entry.Kind,
		Amount:     result.Entry.Amount,
		NewBalance: result.Account.Balance,
	}})
}

type transferRequest struct {
	FromAccountID int64  `json:"from_account_id" binding:"required,min=1"`
	ToAccountID   int64  `json:"to_account_id" binding:"required,min=1"`
	Amount        string `json:"amount" binding:"required"`
	Description   string `json:"description" binding:"omitempty,max=255"`
}

type transferData struct {
	SenderEntryID       int64  `json:"sender_entry_id"`
	RecipientEntryID    int64  `json:"recipient_entry_id"`
	Amount              string `json:"amount"`
	SenderNewBalance    string `json:"sender_new_balance"`
	RecipientNewBalance string `json:"recipient_new_balance"`
}

type transferResponse struct {
	Data transferData `json:"data,omitempty"`
}

// Transfer handles http request to move money between two accounts.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	result, err := h.service.Transfer(ctx, domain.TransferParams{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		l.Info().Err(err).Send()
		writeOperationError(gctx, err)

		return
	}

	gctx.JSON(http.StatusCreated, transferResponse{Data: transferData{
		SenderEntryID:       result.FromEntry.ID,
		RecipientEntryID:    result.ToEntry.ID,
		Amount:              result.FromEntry.Amount,
		SenderNewBalance:    result.FromAccount.Balance,
		RecipientNewBalance: result.ToAccount.Balance,
	}})
}

func bindOperation(gctx *gin.Context) (accountURI, operationRequest, bool) {
	l := zerolog.Ctx(gctx)

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return uri, operationRequest{}, false
	}

	var req operationRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return uri, req, false
	}

	return uri, req, true
}

func writeOperationError(gctx *gin.Context, err error) {
	var insufficient *domain.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		gctx.JSON(http.StatusBadRequest, insufficientBalanceResponse{
			Error:          "insufficient balance",
			CurrentBalance: insufficient.Current,
			RequiredAmount: insufficient.Required,
		})

		return
	}

	switch err {
	case domain.ErrAccountNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case domain.ErrInvalidAmount, domain.ErrNegativeAmount, domain.ErrSelfTransfer:
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case domain.ErrConflict:
		gctx.JSON(http.StatusConflict, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}
