package errors

import (
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceError_Error(t *testing.T) {
	type fields struct {
		errorType ErrorType
		message   string
	}
	tests := []struct {
		name   string
		fields fields
		want   string
	}{
		{
			name: "errorType and message is filled out", fields: fields{errorType: ErrorTypeBadRequest, message: "error message"}, want: "error message",
		},
		{
			name: "message is empty", fields: fields{errorType: ErrorTypeBadRequest, message: ""}, want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := CommonServiceError{
				errorType: tt.fields.errorType,
				message:   tt.fields.message,
			}
			if got := e.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewServiceError(t *testing.T) {
	type args struct {
		errorType ErrorType
		message   string
	}
	tests := []struct {
		name string
		args args
		want CommonServiceError
	}{
		{
			name: "error type and message are filled out",
			args: args{errorType: ErrorTypeUntrainedModel, message: "error message"},
			want: CommonServiceError{errorType: ErrorTypeUntrainedModel, message: "error message"},
		},
		{
			name: "message is empty",
			args: args{errorType: ErrorTypeUntrainedModel, message: ""},
			want: CommonServiceError{errorType: ErrorTypeUntrainedModel, message: ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewCommonServiceError(tt.args.errorType, tt.args.message); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewCommonServiceError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertToHTTPError(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		code      int
	}{
		{ErrorTypeBadRequest, http.StatusBadRequest},
		{ErrorTypeMandatory, http.StatusBadRequest},
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeUntrainedModel, http.StatusServiceUnavailable},
		{ErrorTypeInconsistentState, http.StatusInternalServerError},
		{ErrorTypeServerError, http.StatusInternalServerError},
		{ErrorType("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			httpErr := NewCommonServiceError(tt.errorType, "boom").ConvertToHTTPError()
			assert.Equal(t, tt.code, httpErr.Code)
			assert.Equal(t, ErrorResponse{Error: "boom"}, httpErr.Message)
		})
	}
}

func TestNewMandatoryFieldsError(t *testing.T) {
	err := NewMandatoryFieldsError("missing fields: runtime", []string{"runtime"})
	assert.True(t, err.IsErrorType(ErrorTypeMandatory))
	httpErr := err.ConvertToHTTPError()
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, ErrorResponse{Error: "missing fields: runtime", Missing: []string{"runtime"}}, httpErr.Message)
}

func TestAsServiceError(t *testing.T) {
	assert.Nil(t, AsServiceError(nil))

	typed := NewCommonServiceError(ErrorTypeNotFound, "gone")
	assert.Equal(t, typed, AsServiceError(typed))

	plain := AsServiceError(fmt.Errorf("plain"))
	assert.True(t, plain.IsErrorType(ErrorTypeServerError))
	assert.Equal(t, "plain", plain.Message())
}
