// Question HTTP handlers.
//
//   - GET    /questions        (list, optional start/end window)
//   - POST   /questions        (add or replace by id, idempotent with a key)
//   - PUT    /questions/{id}   (replace existing)
//   - DELETE /questions/{id}   (remove existing)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/http/middleware"
)

const (
	msgQuestionAdded   = "Question added"
	msgQuestionUpdated = "Question updated"
	msgQuestionDeleted = "Question deleted"
)

// queryParams flattens the query string to its first values. Every key is
// kept so that unknown parameters still count as a pagination request.
func queryParams(c *gin.Context) map[string]string {
	q := c.Request.URL.Query()
	out := make(map[string]string, len(q))
	for k, vv := range q {
		if len(vv) > 0 {
			out[k] = vv[0]
		} else {
			out[k] = ""
		}
	}
	return out
}

// ListQuestions godoc
// @ID          listQuestions
// @Summary     List questions
// @Description Returns every question ordered by id, or the [start, end) window when start and end are given.
// @Tags        Questions
// @Produce     json
//
// @Param       start  query  int  false  "Window start (inclusive)"  minimum(0)
// @Param       end    query  int  false  "Window end (exclusive)"    minimum(0)
//
// @Success     200  {array}   domain.Question
// @Failure     422  {object}  handlers.ErrorResponse  "Bad pagination parameters"
// @Router      /questions [get]
func (h *Handlers) ListQuestions(c *gin.Context) {
	params := queryParams(c)
	middleware.LoggerFrom(c).Info().Bool("pagination", len(params) > 0).Msg("querying questions")

	qs, err := h.qSvc.List(c.Request.Context(), params)
	if err != nil {
		failWith(c, err)
		return
	}
	if qs == nil {
		qs = []domain.Question{}
	}
	ok(c, http.StatusOK, qs)
}

// AddQuestion godoc
// @ID          addQuestion
// @Summary     Add a question
// @Description Stores the question under its id, replacing any question with the same id.
// @Tags        Questions
// @Accept      json
// @Produce     plain
//
// @Param       Idempotency-Key  header  string           false  "Key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    domain.Question  true   "Question"
//
// @Success     200  {string}  string                  "Question added"
// @Header      200  {string}  Idempotency-Replayed    "true when answered from the ledger"
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed body or empty id"
// @Router      /questions [post]
func (h *Handlers) AddQuestion(c *gin.Context) {
	if middleware.IsReplay(c) {
		replay(c, msgQuestionAdded)
		return
	}

	var q domain.Question
	if err := c.ShouldBindJSON(&q); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.qSvc.Add(c.Request.Context(), q); err != nil {
		failWith(c, err)
		return
	}

	h.remember(c, q.ID.String(), http.StatusOK)
	confirm(c, msgQuestionAdded)
}

// UpdateQuestion godoc
// @ID          updateQuestion
// @Summary     Replace a question
// @Description Replaces the stored question. The path id wins over any id in the body.
// @Tags        Questions
// @Accept      json
// @Produce     plain
//
// @Param       id    path  string           true  "Question id"  example(1)
// @Param       body  body  domain.Question  true  "Replacement"
//
// @Success     200  {string}  string                  "Question updated"
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed body"
// @Failure     404  {object}  handlers.ErrorResponse  "Question not found"
// @Router      /questions/{id} [put]
func (h *Handlers) UpdateQuestion(c *gin.Context) {
	var q domain.Question
	if err := c.ShouldBindJSON(&q); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.qSvc.Update(c.Request.Context(), c.Param("id"), q); err != nil {
		failWith(c, err)
		return
	}
	confirm(c, msgQuestionUpdated)
}

// DeleteQuestion godoc
// @ID          deleteQuestion
// @Summary     Delete a question
// @Tags        Questions
// @Produce     plain
//
// @Param       id  path  string  true  "Question id"  example(1)
//
// @Success     200  {string}  string                  "Question deleted"
// @Failure     404  {object}  handlers.ErrorResponse  "Question not found"
// @Router      /questions/{id} [delete]
func (h *Handlers) DeleteQuestion(c *gin.Context) {
	if err := h.qSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failWith(c, err)
		return
	}
	confirm(c, msgQuestionDeleted)
}
