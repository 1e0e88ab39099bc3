/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package errors

import (
	goerrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ErrorType string

const (
	ErrorTypeNotFound          ErrorType = "NotFound"
	ErrorTypeServerError       ErrorType = "ServerError"
	ErrorTypeDBError           ErrorType = "DBError"
	ErrorTypeBadRequest        ErrorType = "BadRequest"
	ErrorTypeMandatory         ErrorType = "Mandatory"
	ErrorTypeUnknown           ErrorType = "Unknown"
	ErrorTypeConfig            ErrorType = "ConfigurationError"
	ErrorTypeUntrainedModel    ErrorType = "UntrainedModel"
	ErrorTypeInconsistentState ErrorType = "InconsistentState"
	ErrorTypeDataset           ErrorType = "DatasetError"
)

// ErrorResponse is the JSON body sent to API callers on failure.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

type CommonServiceError struct {
	errorType ErrorType
	message   string
	fields    []string
}

type ServiceError interface {
	ErrorType() ErrorType
	Message() string
	Fields() []string
	IsErrorType(errorType ErrorType) bool
	Error() string
	ConvertToHTTPError() *echo.HTTPError
}

func (e CommonServiceError) ErrorType() ErrorType {
	return e.errorType
}

func (e CommonServiceError) Message() string {
	return e.message
}

// Fields returns the input field names the error refers to, if any
func (e CommonServiceError) Fields() []string {
	return e.fields
}

func (e CommonServiceError) Error() string {
	return e.message
}

func (e CommonServiceError) IsErrorType(errorType ErrorType) bool {
	return errorType == e.errorType
}

func (e CommonServiceError) ConvertToHTTPError() *echo.HTTPError {
	return echo.NewHTTPError(errorTypeToCode(e.ErrorType()), ErrorResponse{Error: e.Message(), Missing: e.Fields()})
}

func NewCommonServiceError(errorType ErrorType, message string) CommonServiceError {
	return CommonServiceError{errorType: errorType, message: message}
}

// NewMandatoryFieldsError reports input fields that were required but not supplied.
func NewMandatoryFieldsError(message string, fields []string) CommonServiceError {
	return CommonServiceError{errorType: ErrorTypeMandatory, message: message, fields: fields}
}

// AsServiceError returns err as a ServiceError, classifying unknown errors as server errors.
func AsServiceError(err error) ServiceError {
	if err == nil {
		return nil
	}
	var svcErr ServiceError
	if goerrors.As(err, &svcErr) {
		return svcErr
	}
	return NewCommonServiceError(ErrorTypeServerError, err.Error())
}

func errorTypeToCode(status ErrorType) int {
	switch status {
	case ErrorTypeServerError:
		return http.StatusInternalServerError
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeBadRequest, ErrorTypeMandatory:
		return http.StatusBadRequest
	case ErrorTypeUntrainedModel:
		return http.StatusServiceUnavailable
	case ErrorTypeDBError, ErrorTypeUnknown, ErrorTypeInconsistentState, ErrorTypeDataset, ErrorTypeConfig:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
