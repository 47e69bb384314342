package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/http/middleware"
)

const msgAnswerAdded = "Answer added"

// answerFields are the form fields AddAnswer forwards to the service.
var answerFields = []string{"content", "questionId"}

// AddAnswer godoc
// @ID          addAnswer
// @Summary     Answer a question
// @Description Creates an answer with a fresh id. The question is not required to exist.
// @Tags        Answers
// @Accept      x-www-form-urlencoded
// @Produce     plain
//
// @Param       Idempotency-Key  header    string  false  "Key for safe retries"
// @Param       content          formData  string  true   "Answer text"
// @Param       questionId       formData  string  true   "Question id"  example(1)
//
// @Success     200  {string}  string                  "Answer added"
// @Header      200  {string}  Idempotency-Replayed    "true when answered from the ledger"
// @Failure     400  {object}  handlers.ErrorResponse  "Missing field or empty question id"
// @Router      /comments [post]
func (h *Handlers) AddAnswer(c *gin.Context) {
	if middleware.IsReplay(c) {
		middleware.LoggerFrom(c).Debug().Str("answer_id", middleware.ReplayedResource(c)).Msg("answer replayed")
		replay(c, msgAnswerAdded)
		return
	}

	form := make(map[string]string, len(answerFields))
	for _, k := range answerFields {
		if v, present := c.GetPostForm(k); present {
			form[k] = v
		}
	}

	a, err := h.aSvc.Add(c.Request.Context(), form)
	if err != nil {
		failWith(c, err)
		return
	}

	h.remember(c, a.ID.String(), http.StatusOK)
	confirm(c, msgAnswerAdded)
}
