package devbackend

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/samarth/admin-console/internal/core/domain"
)

// --- Request types ---

type userIn struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=SUPER_ADMIN ADMIN"`
	FullName string `json:"full_name"`
}

type inventoryIn struct {
	Name         string `json:"name"     validate:"required"`
	KitID        string `json:"kit_id"   validate:"required"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
	Category     string `json:"category" validate:"required"`
	Quantity     *int   `json:"quantity"`
	Status       string `json:"status"   validate:"required"`
	State        string `json:"state"`
	District     string `json:"district"`
	Institution  string `json:"institution"`
	QRCode       string `json:"qr_code"`
	Description  string `json:"description"`
	BatchID      *int   `json:"batch_id"`
}

type trainingIn struct {
	Title             string `json:"title"      validate:"required"`
	Instructor        string `json:"instructor" validate:"required"`
	Date              string `json:"date"       validate:"required"`
	ParticipantsCount int    `json:"participants_count"`
	Status            string `json:"status"     validate:"required"`
	NDUMappingID      string `json:"ndu_mapping_id"`
}

type contentIn struct {
	Title              string `json:"title"            validate:"required"`
	Category           string `json:"category"         validate:"required"`
	DurationMinutes    int    `json:"duration_minutes"`
	Tags               string `json:"tags"`
	NDUReferenceID     string `json:"ndu_reference_id"`
	HasSafetyChecklist bool   `json:"has_safety_checklist"`
	HasTroubleshooting bool   `json:"has_troubleshooting"`
	HasAssessmentCues  bool   `json:"has_assessment_cues"`
	QualityChecked     bool   `json:"quality_checked"`
}

type fieldProblem struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

// bindBody decodes and validates a JSON body, answering 422 with per-field
// problems like the real API does.
func (s *Server) bindBody(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}
	if err := s.validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		problems := make([]fieldProblem, 0, len(ve))
		for _, fe := range ve {
			msg := "field required"
			if fe.Tag() != "required" {
				msg = "invalid value (" + fe.Tag() + ")"
			}
			problems = append(problems, fieldProblem{Loc: []string{"body", fe.Field()}, Msg: msg})
		}
		return echo.NewHTTPError(http.StatusUnprocessableEntity, problems)
	}
	return nil
}

func currentAccount(c echo.Context) domain.Account {
	acc, _ := c.Get(ctxAccountKey).(domain.Account)
	return acc
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "id must be an integer")
	}
	return id, nil
}

// --- Auth ---

func (s *Server) issueToken(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	acc, ok := s.store.Authenticate(username, password)
	if !ok {
		s.store.Record("LOGIN_FAILURE", 0)
		s.log.Info().Str("username", username).Msg("login failure")
		c.Response().Header().Set(wwwAuthHeader, wwwAuthBearer)
		return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect username or password")
	}

	token, err := s.tokens.issue(acc.Username, acc.Role)
	if err != nil {
		return err
	}
	s.store.Record("LOGIN_SUCCESS", acc.ID)
	return c.JSON(http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// --- Users ---

func (s *Server) listUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Accounts())
}

func (s *Server) createUser(c echo.Context) error {
	var in userIn
	if err := s.bindBody(c, &in); err != nil {
		return err
	}
	acc, err := s.store.CreateAccount(domain.NewAccount{
		Username: in.Username,
		Password: in.Password,
		Role:     in.Role,
		FullName: in.FullName,
	})
	if errors.Is(err, errDuplicate) {
		return echo.NewHTTPError(http.StatusBadRequest, "Username already registered")
	}
	if err != nil {
		return err
	}
	s.store.Record("CREATE_USER", currentAccount(c).ID)
	return c.JSON(http.StatusOK, acc)
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if id == currentAccount(c).ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot delete yourself")
	}
	if err := s.store.DeleteAccount(id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	s.store.Record("DELETE_USER", currentAccount(c).ID)
	return c.NoContent(http.StatusNoContent)
}

// --- Dashboard ---

func (s *Server) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Stats(currentAccount(c).Role))
}

// --- Inventory ---

func (s *Server) listInventory(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Inventory())
}

func (s *Server) createInventory(c echo.Context) error {
	var in inventoryIn
	if err := s.bindBody(c, &in); err != nil {
		return err
	}

	item := domain.InventoryItem{
		Name:         in.Name,
		KitID:        in.KitID,
		Model:        in.Model,
		SerialNumber: in.SerialNumber,
		Category:     in.Category,
		Quantity:     1,
		Status:       in.Status,
		State:        in.State,
		District:     in.District,
		Institution:  in.Institution,
		QRCode:       in.QRCode,
		Description:  in.Description,
		BatchID:      in.BatchID,
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if item.State == "" {
		item.State = "Warehouse"
	}

	created, err := s.store.CreateInventory(item, currentAccount(c).ID)
	if errors.Is(err, errDuplicate) {
		return echo.NewHTTPError(http.StatusBadRequest, "Kit ID "+item.KitID+" already exists")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, created)
}

func (s *Server) deleteInventory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.store.DeleteInventory(id, currentAccount(c).ID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) auditExport(c echo.Context) error {
	s.store.Record("EXPORT_REPORT", currentAccount(c).ID)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged"})
}

func (s *Server) utilization(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Utilization())
}

// --- Training ---

func (s *Server) listTrainings(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Trainings())
}

func (s *Server) createTraining(c echo.Context) error {
	var in trainingIn
	if err := s.bindBody(c, &in); err != nil {
		return err
	}
	t := s.store.CreateTraining(domain.Training{
		Title:             in.Title,
		Instructor:        in.Instructor,
		Date:              in.Date,
		ParticipantsCount: in.ParticipantsCount,
		Status:            in.Status,
		NDUMappingID:      in.NDUMappingID,
	}, currentAccount(c).ID)
	return c.JSON(http.StatusOK, t)
}

func (s *Server) deleteTraining(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTraining(id, currentAccount(c).ID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Training not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Content ---

func (s *Server) listContent(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Content())
}

func (s *Server) createContent(c echo.Context) error {
	var in contentIn
	if err := s.bindBody(c, &in); err != nil {
		return err
	}
	item := s.store.CreateContent(domain.ContentItem{
		Title:              in.Title,
		Category:           in.Category,
		DurationMinutes:    in.DurationMinutes,
		Tags:               in.Tags,
		NDUReferenceID:     in.NDUReferenceID,
		HasSafetyChecklist: in.HasSafetyChecklist,
		HasTroubleshooting: in.HasTroubleshooting,
		HasAssessmentCues:  in.HasAssessmentCues,
		QualityChecked:     in.QualityChecked,
	}, currentAccount(c).ID)
	return c.JSON(http.StatusOK, item)
}

// --- Integration ---

func (s *Server) sync(c echo.Context) error {
	kind := domain.SyncKind(c.Param("kind"))
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ref, err := s.store.Sync(kind, id, currentAccount(c).ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Successfully synced with NDU",
		"ndu_id":  ref,
	})
}
