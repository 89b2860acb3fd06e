package controllers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/student-records/database"
	"github.com/yeremiapane/student-records/flash"
	"github.com/yeremiapane/student-records/middlewares"
	"github.com/yeremiapane/student-records/models"
	"github.com/yeremiapane/student-records/services"
	"github.com/yeremiapane/student-records/utils"
)

// UserController serves the record pages. Each request opens its own store.
type UserController struct {
	Store    *database.Opener
	Flash    *flash.Codec
	Log      *logrus.Logger
	PageSize int
}

func NewUserController(store *database.Opener, fl *flash.Codec, log *logrus.Logger, pageSize int) *UserController {
	if pageSize < 1 {
		pageSize = database.DefaultPageSize
	}
	return &UserController{Store: store, Flash: fl, Log: log, PageSize: pageSize}
}

func (uc *UserController) withStore(c *gin.Context, fn func(ctx context.Context, st *database.Store) error) error {
	ctx := c.Request.Context()
	return database.WithStore(ctx, uc.Store, func(st *database.Store) error {
		return fn(ctx, st)
	})
}

func (uc *UserController) notify(c *gin.Context, level, text string) {
	if err := uc.Flash.Add(c, level, text); err != nil {
		uc.Log.WithError(err).Error("set flash cookie")
	}
}

// fail logs err, queues a danger notice and redirects. Connection failures go
// to the landing page and missing records to the list, whatever location says.
func (uc *UserController) fail(c *gin.Context, action string, err error, location string) {
	entry := uc.Log.WithError(err).WithFields(logrus.Fields{
		"action":     action,
		"request_id": c.GetString(middlewares.RequestIDKey),
	})

	var msg string
	switch {
	case database.IsConnection(err):
		entry.Error("store unavailable")
		msg = "Unable to connect to database"
		location = "/"
	case database.IsNotFound(err):
		entry.Warn("record not found")
		msg = "Data not found"
		location = "/display"
	case database.IsConstraintViolation(err):
		entry.Warn("duplicate record")
		msg = fmt.Sprintf("Error %s data: roll or email already exists", action)
	case database.IsValidation(err):
		entry.Warn("invalid record")
		msg = fmt.Sprintf("Error %s data: all fields are required", action)
	default:
		entry.Error("store error")
		msg = fmt.Sprintf("Error %s data", action)
	}
	uc.notify(c, flash.Danger, msg)
	utils.Redirect(c, location)
}

// Index renders the empty record form.
func (uc *UserController) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":   "Add record",
		"Flashes": uc.Flash.Pop(c),
		"Record":  models.User{},
	})
}

// AddUser creates a record from the submitted form.
func (uc *UserController) AddUser(c *gin.Context) {
	var form models.User
	if err := c.ShouldBind(&form); err != nil {
		uc.notify(c, flash.Danger, "All fields are required")
		utils.Redirect(c, "/")
		return
	}

	var created *models.User
	err := uc.withStore(c, func(ctx context.Context, st *database.Store) error {
		var err error
		created, err = st.Insert(ctx, form)
		return err
	})
	if err != nil {
		uc.fail(c, "inserting", err, "/")
		return
	}

	uc.Log.WithFields(logrus.Fields{"id": created.ID, "roll": created.Roll}).Info("record inserted")
	uc.notify(c, flash.Success, "Data inserted successfully!")
	utils.Redirect(c, "/display")
}

// DisplayUsers renders one page of records, filtered by the search term from
// the POST form or the ?search= query.
func (uc *UserController) DisplayUsers(c *gin.Context) {
	page, ok := utils.ParamPage(c)
	if !ok {
		utils.RespondErrorPage(c, http.StatusNotFound, "Page not found")
		return
	}

	search := c.Query("search")
	if c.Request.Method == http.MethodPost {
		search = c.PostForm("search")
	}
	search = strings.TrimSpace(search)

	var (
		users      []models.User
		totalPages int
	)
	err := uc.withStore(c, func(ctx context.Context, st *database.Store) error {
		var err error
		if search != "" {
			users, err = st.SearchPage(ctx, search, page, uc.PageSize)
		} else {
			users, err = st.FetchPage(ctx, page, uc.PageSize)
		}
		if err != nil {
			return err
		}
		totalPages, err = st.TotalPages(ctx, uc.PageSize, search)
		return err
	})
	if err != nil {
		uc.fail(c, "retrieving", err, "/")
		return
	}

	// An empty list still shows as "page 1 of 1".
	if totalPages < 1 {
		totalPages = 1
	}

	c.HTML(http.StatusOK, "display.html", gin.H{
		"Title":      "Records",
		"Flashes":    uc.Flash.Pop(c),
		"Users":      users,
		"Search":     search,
		"Page":       page,
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
		"TotalPages": totalPages,
	})
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := utils.ParamInt64(c, "id")
	if !ok {
		utils.RespondErrorPage(c, http.StatusNotFound, "Record not found")
		return
	}

	err := uc.withStore(c, func(ctx context.Context, st *database.Store) error {
		return st.Delete(ctx, id)
	})
	if err != nil {
		uc.fail(c, "deleting", err, "/display")
		return
	}

	uc.Log.WithField("id", id).Info("record deleted")
	uc.notify(c, flash.Success, "Data deleted successfully!")
	utils.Redirect(c, "/display")
}

// EditUser renders the edit form for one record.
func (uc *UserController) EditUser(c *gin.Context) {
	id, ok := utils.ParamInt64(c, "id")
	if !ok {
		utils.RespondErrorPage(c, http.StatusNotFound, "Record not found")
		return
	}

	var record *models.User
	err := uc.withStore(c, func(ctx context.Context, st *database.Store) error {
		var err error
		record, err = st.FetchOne(ctx, id)
		return err
	})
	if err != nil {
		uc.fail(c, "retrieving", err, "/display")
		return
	}

	c.HTML(http.StatusOK, "update.html", gin.H{
		"Title":   "Edit record",
		"Flashes": uc.Flash.Pop(c),
		"Record":  record,
	})
}

// UpdateUser overwrites a record with the submitted form.
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := utils.ParamInt64(c, "id")
	if !ok {
		utils.RespondErrorPage(c, http.StatusNotFound, "Record not found")
		return
	}
	back := fmt.Sprintf("/update/%d", id)

	var form models.User
	if err := c.ShouldBind(&form); err != nil {
		uc.notify(c, flash.Danger, "All fields are required")
		utils.Redirect(c, back)
		return
	}

	err := uc.withStore(c, func(ctx context.Context, st *database.Store) error {
		return st.Update(ctx, id, form)
	})
	if err != nil {
		uc.fail(c, "updating", err, back)
		return
	}

	uc.Log.WithField("id", id).Info("record updated")
	uc.notify(c, flash.Success, "Data updated successfully!")
	utils.Redirect(c, "/display")
}

// Download sends the whole table as database.csv.
func (uc *UserController) Download(c *gin.Context) {
	var buf bytes.Buffer
	err := uc.withStore(c, func(ctx context.Context, st *database.Store) error {
		users, err := st.FetchAll(ctx)
		if err != nil {
			return err
		}
		return services.ExportCSV(&buf, users)
	})
	if err != nil {
		uc.fail(c, "exporting", err, "/display")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="database.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// Health reports whether the store can be opened.
func (uc *UserController) Health(c *gin.Context) {
	err := uc.withStore(c, func(ctx context.Context, st *database.Store) error {
		return st.Ping(ctx)
	})
	if err != nil {
		uc.Log.WithError(err).Warn("health check failed")
		utils.RespondJSON(c, http.StatusServiceUnavailable, "database unavailable", gin.H{"status": "down"})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "ok", gin.H{"status": "up"})
}
