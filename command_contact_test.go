package creatorconnect_test

import (
	"context"
	"testing"

	creatorconnect "github.com/creatorconnect/server"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestContactCreatorHandlerDeliversMessage(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	creators := &MockCreators{}
	mailer := &MockMailer{}

	repo.On("Creators").Return(creators)
	creators.On("GetBySlug", mock.Anything, "jane-doe-creator").
		Return(&creatorconnect.CreatorProfile{
			Slug:  "jane-doe-creator",
			Email: "jane@example.com",
		}, nil).Once()
	mailer.On("SendContact", mock.Anything, creatorconnect.ContactMessage{
		CreatorSlug:  "jane-doe-creator",
		CreatorEmail: "jane@example.com",
		SenderName:   "Acme Goods",
		SenderEmail:  "contact@acme.com",
		Subject:      "Spring campaign",
		Body:         "We would love to work with you.",
	}).Return(nil).Once()

	handler := creatorconnect.NewContactCreatorHandler(repo, mailer).WithLogger(testLogger{})

	var res *creatorconnect.ContactCreatorResponse
	err := handler.Execute(ctx, creatorconnect.ContactCreatorMessage{
		CreatorID:   "jane-doe-creator",
		Subject:     "Spring campaign",
		Message:     "We would love to work with you.",
		CompanyName: "Acme Goods",
		Email:       "contact@acme.com",
		OnResponse: func(r *creatorconnect.ContactCreatorResponse) {
			res = r
		},
	})

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Success)

	creators.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestContactCreatorHandlerUnknownCreator(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	creators := &MockCreators{}
	mailer := &MockMailer{}

	repo.On("Creators").Return(creators)
	creators.On("GetBySlug", mock.Anything, "nobody").
		Return(nil, repository.NewRecordNotFound()).Once()

	handler := creatorconnect.NewContactCreatorHandler(repo, mailer).WithLogger(testLogger{})

	err := handler.Execute(ctx, creatorconnect.ContactCreatorMessage{
		CreatorID: "nobody",
		Subject:   "Hello",
		Message:   "Anyone there?",
	})

	require.Error(t, err)
	assert.True(t, goerrors.Is(err, creatorconnect.ErrCreatorNotFound))
	assert.Equal(t, 404, creatorconnect.HTTPStatus(err))

	mailer.AssertNotCalled(t, "SendContact", mock.Anything, mock.Anything)
}

func TestContactCreatorHandlerSurfacesDeliveryFailure(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	creators := &MockCreators{}
	mailer := &MockMailer{}

	repo.On("Creators").Return(creators)
	creators.On("GetBySlug", mock.Anything, "jane-doe-creator").
		Return(&creatorconnect.CreatorProfile{
			Slug:  "jane-doe-creator",
			Email: "jane@example.com",
		}, nil).Once()
	mailer.On("SendContact", mock.Anything, mock.Anything).
		Return(goerrors.New("relay refused", goerrors.CategoryInternal)).Once()

	handler := creatorconnect.NewContactCreatorHandler(repo, mailer).WithLogger(testLogger{})

	responded := false
	err := handler.Execute(ctx, creatorconnect.ContactCreatorMessage{
		CreatorID: "jane-doe-creator",
		Subject:   "Hello",
		Message:   "Anyone there?",
		OnResponse: func(r *creatorconnect.ContactCreatorResponse) {
			responded = true
		},
	})

	require.Error(t, err)
	assert.Equal(t, 500, creatorconnect.HTTPStatus(err))
	assert.False(t, responded)
}
