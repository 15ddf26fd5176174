package contact_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactrelay/pkg/contact"
)

// MockDeliverer is a mock implementation of contact.Deliverer.
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(ctx context.Context, req contact.DeliveryRequest) (*contact.Receipt, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*contact.Receipt)
	return r, args.Error(1)
}

type observed struct {
	outcomes   []contact.Outcome
	deliveries int
}

func (o *observed) ObserveSubmission(out contact.Outcome) { o.outcomes = append(o.outcomes, out) }
func (o *observed) ObserveDelivery(time.Duration, error)  { o.deliveries++ }

var validConfig = contact.Config{
	ServiceID:  "service_test",
	TemplateID: "template_test",
	PublicKey:  "public_test",
}

func filledForm() *contact.Form {
	return &contact.Form{
		ID: "form-1",
		Submission: contact.Submission{
			SenderName:  "Ada Lovelace",
			SenderEmail: "ada@example.com",
			Subject:     "Hello",
			Message:     "  Keep the whitespace.\n",
		},
	}
}

func TestController_HandleSubmit_NilForm(t *testing.T) {
	t.Parallel()

	d := &MockDeliverer{}
	ctrl := contact.NewController(validConfig, d)
	t.Cleanup(func() { _ = ctrl.Close() })

	rec := &contact.Recorder{}
	out := ctrl.HandleSubmit(context.Background(), nil, rec)

	require.Equal(t, contact.OutcomeAborted, out)
	require.Empty(t, rec.Notifications())
	d.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestController_HandleSubmit_MissingConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  contact.Config
	}{
		{name: "service id", cfg: contact.Config{TemplateID: "t", PublicKey: "k"}},
		{name: "template id", cfg: contact.Config{ServiceID: "s", PublicKey: "k"}},
		{name: "public key", cfg: contact.Config{ServiceID: "s", TemplateID: "t"}},
		{name: "all", cfg: contact.Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := &MockDeliverer{}
			ctrl := contact.NewController(tt.cfg, d)
			t.Cleanup(func() { _ = ctrl.Close() })

			rec := &contact.Recorder{}
			form := filledForm()
			out := ctrl.HandleSubmit(context.Background(), form, rec)

			require.Equal(t, contact.OutcomeMisconfigured, out)
			require.Equal(t, []contact.Notification{{
				Title:       contact.TitleMisconfigured,
				Description: contact.DescriptionMisconfigured,
				Variant:     contact.VariantDestructive,
			}}, rec.Notifications())
			require.Equal(t, filledForm().Submission, form.Submission, "form keeps its values")
			d.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
		})
	}
}

func TestController_HandleSubmit_Success(t *testing.T) {
	t.Parallel()

	d := &MockDeliverer{}
	obs := &observed{}
	ctrl := contact.NewController(validConfig, d, contact.WithObserver(obs))
	t.Cleanup(func() { _ = ctrl.Close() })

	form := filledForm()
	want := form.Submission
	ctx := context.Background()

	var submittingDuringCall bool
	d.On("Deliver", mock.Anything, contact.DeliveryRequest{
		ServiceID:  "service_test",
		TemplateID: "template_test",
		PublicKey:  "public_test",
		Params:     want,
	}).Run(func(mock.Arguments) {
		submittingDuringCall = ctrl.IsSubmitting(ctx, "form-1")
	}).Return(&contact.Receipt{Status: 200, Text: "OK"}, nil).Once()

	require.False(t, ctrl.IsSubmitting(ctx, "form-1"))

	rec := &contact.Recorder{}
	out := ctrl.HandleSubmit(ctx, form, rec)

	require.Equal(t, contact.OutcomeSent, out)
	require.True(t, submittingDuringCall)
	require.False(t, ctrl.IsSubmitting(ctx, "form-1"))
	require.True(t, form.Submission.IsZero(), "form is reset after success")

	notes := rec.Notifications()
	require.Len(t, notes, 1)
	require.Equal(t, contact.TitleSent, notes[0].Title)
	require.Equal(t, contact.DescriptionSent, notes[0].Description)
	require.False(t, notes[0].IsDestructive())

	require.Equal(t, []contact.Outcome{contact.OutcomeSent}, obs.outcomes)
	require.Equal(t, 1, obs.deliveries)
	d.AssertExpectations(t)
}

func TestController_HandleSubmit_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		description string
	}{
		{
			name:        "provider text is shown",
			err:         &contact.DeliveryError{Status: 426, Text: "Quota exceeded"},
			description: "Quota exceeded",
		},
		{
			name:        "rejection without text falls back",
			err:         &contact.DeliveryError{Status: 500},
			description: contact.DescriptionFailed,
		},
		{
			name:        "plain error falls back",
			err:         errors.New("dial tcp: connection refused"),
			description: contact.DescriptionFailed,
		},
		{
			name:        "wrapped delivery error keeps text",
			err:         errors.Join(errors.New("outer"), &contact.DeliveryError{Text: "The template ID is invalid"}),
			description: "The template ID is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := &MockDeliverer{}
			ctrl := contact.NewController(validConfig, d)
			t.Cleanup(func() { _ = ctrl.Close() })

			ctx := context.Background()
			var submittingDuringCall bool
			d.On("Deliver", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
				submittingDuringCall = ctrl.IsSubmitting(ctx, "form-1")
			}).Return(nil, tt.err).Once()

			form := filledForm()
			rec := &contact.Recorder{}
			out := ctrl.HandleSubmit(ctx, form, rec)

			require.Equal(t, contact.OutcomeFailed, out)
			require.Equal(t, []contact.Notification{{
				Title:       contact.TitleFailed,
				Description: tt.description,
				Variant:     contact.VariantDestructive,
			}}, rec.Notifications())
			require.True(t, submittingDuringCall)
			require.False(t, ctrl.IsSubmitting(ctx, "form-1"))
			require.Equal(t, filledForm().Submission, form.Submission, "form keeps its values for retry")
			d.AssertNumberOfCalls(t, "Deliver", 1)
		})
	}
}

func TestController_HandleSubmit_Busy(t *testing.T) {
	t.Parallel()

	d := &MockDeliverer{}
	ctrl := contact.NewController(validConfig, d)
	t.Cleanup(func() { _ = ctrl.Close() })

	ctx := context.Background()
	var inner contact.Outcome
	innerRec := &contact.Recorder{}

	d.On("Deliver", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		inner = ctrl.HandleSubmit(ctx, filledForm(), innerRec)
	}).Return(&contact.Receipt{Status: 200}, nil).Once()

	out := ctrl.HandleSubmit(ctx, filledForm(), &contact.Recorder{})

	require.Equal(t, contact.OutcomeSent, out)
	require.Equal(t, contact.OutcomeBusy, inner)
	require.Empty(t, innerRec.Notifications())
	d.AssertNumberOfCalls(t, "Deliver", 1)
}

func TestController_HandleSubmit_AssignsFormID(t *testing.T) {
	t.Parallel()

	d := &MockDeliverer{}
	d.On("Deliver", mock.Anything, mock.Anything).Return(&contact.Receipt{}, nil)

	ctrl := contact.NewController(validConfig, d)
	t.Cleanup(func() { _ = ctrl.Close() })

	form := filledForm()
	form.ID = ""
	out := ctrl.HandleSubmit(context.Background(), form, nil)

	require.Equal(t, contact.OutcomeSent, out)
	require.NotEmpty(t, form.ID)
}

func TestController_Healthcheck(t *testing.T) {
	t.Parallel()

	ok := contact.NewController(validConfig, &MockDeliverer{})
	t.Cleanup(func() { _ = ok.Close() })
	require.NoError(t, ok.Healthcheck()(context.Background()))

	missing := contact.NewController(contact.Config{}, &MockDeliverer{})
	t.Cleanup(func() { _ = missing.Close() })
	require.ErrorIs(t, missing.Healthcheck()(context.Background()), contact.ErrNotConfigured)
}
