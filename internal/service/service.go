package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/contacts-web/internal/logging"
	"gitlab.com/dirk.krummacker/contacts-web/internal/model"
	"gitlab.com/dirk.krummacker/contacts-web/internal/store"
	"gitlab.com/dirk.krummacker/contacts-web/internal/view"
	"go.uber.org/zap"
)

// contactIdParam is the name of the route parameter carrying the contact id.
const contactIdParam = "contactId"

// Store is the record store the handlers read from and write to.
type Store interface {
	List(ctx context.Context, q string) ([]model.Contact, error)
	Get(ctx context.Context, id string) (model.Contact, error)
	Create(ctx context.Context) (model.Contact, error)
	Update(ctx context.Context, id string, update model.ContactUpdate) error
	Delete(ctx context.Context, id string) error
}

// InvariantError signals a broken programming contract, such as a route without its required
// parameter. It is raised as a panic and never expected in normal operation.
type InvariantError struct {
	Message string
}

func (e InvariantError) Error() string {
	return "invariant failed: " + e.Message
}

// Service holds the HTTP handlers of the contacts web application.
type Service struct {
	store  Store
	logger *zap.Logger
}

// New returns a service on top of the given store.
func New(contacts Store, logger *zap.Logger) *Service {
	return &Service{store: contacts, logger: logger}
}

// SetupHttpRouter initializes the router with the page renderer and registers all routes.
func (s *Service) SetupHttpRouter(requestLogging bool) (*gin.Engine, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, fmt.Errorf("setup views: %w", err)
	}
	router := gin.New()
	if requestLogging {
		router.Use(logging.RequestLogger(s.logger))
	} else {
		s.logger.Info("Turning off HTTP request logging.")
	}
	router.Use(logging.Recovery(s.logger))
	router.HTMLRender = renderer

	router.GET("/", s.index)
	router.POST("/contacts", s.createContact)
	router.GET("/contacts/:contactId", s.showContact)
	router.POST("/contacts/:contactId", s.favoriteContact)
	router.GET("/contacts/:contactId/edit", s.editContact)
	router.POST("/contacts/:contactId/edit", s.updateContact)
	router.POST("/contacts/:contactId/destroy", s.destroyContact)
	router.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, "Not Found")
	})
	return router, nil
}

// mustParam returns the named route parameter. A missing parameter is a programming error
// and panics with an InvariantError.
func mustParam(c *gin.Context, name string) string {
	value := c.Param(name)
	if value == "" {
		panic(InvariantError{Message: "missing " + name + " param"})
	}
	return value
}

// fail logs an unexpected store error and panics, which the recovery middleware answers with
// 500 Internal Server Error.
func (s *Service) fail(c *gin.Context, err error) {
	s.logger.Panic("Store call failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
}

// loadShell is the loader of the shell: it reads the contact list for the sidebar, filtered by
// the 'q' URL parameter. It runs for every page so that the list is current after any action.
func (s *Service) loadShell(c *gin.Context) view.Page {
	q := c.Query("q")
	contacts, err := s.store.List(c.Request.Context(), q)
	if err != nil {
		s.fail(c, err)
	}
	return view.Page{Query: q, Contacts: contacts}
}

// renderError renders the error page inside the shell and aborts the request.
func (s *Service) renderError(c *gin.Context, status int, message string) {
	page := s.loadShell(c)
	page.Status = status
	page.Message = message
	c.HTML(status, view.PageError, page)
	c.Abort()
}

// loadContact is the loader of the detail and edit pages. An unknown id renders the 404 page
// and returns false.
func (s *Service) loadContact(c *gin.Context) (model.Contact, bool) {
	id := mustParam(c, contactIdParam)
	contact, err := s.store.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.renderError(c, http.StatusNotFound, "Not Found")
		return model.Contact{}, false
	}
	if err != nil {
		s.fail(c, err)
	}
	return contact, true
}

// index renders the shell with the welcome text in the detail slot.
//
//	> curl "http://localhost:8080/?q=Shr"
func (s *Service) index(c *gin.Context) {
	c.HTML(http.StatusOK, view.PageIndex, s.loadShell(c))
}

// createContact creates an empty contact and redirects to its editor.
//
//	> curl http://localhost:8080/contacts --request "POST" --include
func (s *Service) createContact(c *gin.Context) {
	contact, err := s.store.Create(c.Request.Context())
	if err != nil {
		s.fail(c, err)
	}
	s.logger.Debug("Contact created", zap.String("id", contact.Id))
	c.Redirect(http.StatusFound, "/contacts/"+contact.Id+"/edit")
}

// showContact renders the detail page of a contact.
//
//	> curl http://localhost:8080/contacts/0f8d9b0e-4f8e-4c1d-9b52-3f3f6a1c2d01
func (s *Service) showContact(c *gin.Context) {
	contact, ok := s.loadContact(c)
	if !ok {
		return
	}
	page := s.loadShell(c)
	page.Contact = &contact
	c.HTML(http.StatusOK, view.PageContact, page)
}

// editContact renders the edit form of a contact, pre-filled with its current values.
func (s *Service) editContact(c *gin.Context) {
	contact, ok := s.loadContact(c)
	if !ok {
		return
	}
	page := s.loadShell(c)
	page.Contact = &contact
	c.HTML(http.StatusOK, view.PageEdit, page)
}

// updateContact applies the submitted edit form (only the submitted fields) and redirects to
// the contact's detail page. Unknown form fields are rejected.
//
//	> curl http://localhost:8080/contacts/0f8d9b0e-4f8e-4c1d-9b52-3f3f6a1c2d01/edit --request "POST" --include --data "first=Ada&last=Lovelace"
func (s *Service) updateContact(c *gin.Context) {
	id := mustParam(c, contactIdParam)
	form, err := postedForm(c)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err.Error())
		return
	}
	update, err := model.ParseUpdate(form)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err.Error())
		return
	}
	s.applyUpdate(c, id, update, "/contacts/"+id)
}

// favoriteContact sets (not toggles) the favorite flag from the 'favorite' form field.
//
//	> curl http://localhost:8080/contacts/0f8d9b0e-4f8e-4c1d-9b52-3f3f6a1c2d01 --request "POST" --include --data "favorite=true"
func (s *Service) favoriteContact(c *gin.Context) {
	id := mustParam(c, contactIdParam)
	form, err := postedForm(c)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err.Error())
		return
	}
	update, err := model.ParseFavorite(form)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err.Error())
		return
	}
	s.applyUpdate(c, id, update, "/contacts/"+id)
}

// postedForm returns the fields of a url-encoded or multipart form body. File parts are not
// accepted by any form of the application.
func postedForm(c *gin.Context) (url.Values, error) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}
		if len(form.File) > 0 {
			return nil, fmt.Errorf("%w: file upload", model.ErrUnknownField)
		}
		return url.Values(form.Value), nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}
	return c.Request.PostForm, nil
}

func (s *Service) applyUpdate(c *gin.Context, id string, update model.ContactUpdate, location string) {
	err := s.store.Update(c.Request.Context(), id, update)
	if errors.Is(err, store.ErrNotFound) {
		s.renderError(c, http.StatusNotFound, "Not Found")
		return
	}
	if err != nil {
		s.fail(c, err)
	}
	c.Redirect(http.StatusFound, location)
}

// destroyContact deletes the contact and redirects to the root page. Deleting an unknown
// contact renders the 404 page.
//
//	> curl http://localhost:8080/contacts/0f8d9b0e-4f8e-4c1d-9b52-3f3f6a1c2d01/destroy --request "POST" --include
func (s *Service) destroyContact(c *gin.Context) {
	id := mustParam(c, contactIdParam)
	err := s.store.Delete(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.renderError(c, http.StatusNotFound, "Not Found")
		return
	}
	if err != nil {
		s.fail(c, err)
	}
	s.logger.Debug("Contact deleted", zap.String("id", id))
	c.Redirect(http.StatusFound, "/")
}
