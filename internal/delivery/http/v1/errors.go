package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every failure leaves the API as {"error": "<message>"} with a fixed,
// non-descriptive Spanish message; the underlying error only ever reaches
// the logs.
const (
	msgInvalidBody = "Solicitud inválida"

	msgTaskListFailed     = "Error al obtener tareas"
	msgTaskGetFailed      = "Error al obtener la tarea"
	msgTaskNotFound       = "Tarea no encontrada"
	msgTaskTitleRequired  = "El título es requerido"
	msgTaskCreateFailed   = "Error al crear la tarea"
	msgTaskReadBackFailed = "Error al obtener la tarea creada"
	msgTaskUpdateFailed   = "Error al actualizar la tarea"
	msgTaskUpdated        = "Tarea actualizada exitosamente"
	msgTaskDeleteFailed   = "Error al eliminar la tarea"
	msgTaskDeleted        = "Tarea eliminada exitosamente"

	msgUserFieldsRequired  = "Todos los campos son requeridos"
	msgUserInvalidEmail    = "Formato de email inválido"
	msgUserShortPassword   = "La contraseña debe tener al menos 3 caracteres"
	msgUserAlreadyExists   = "El usuario o email ya existe"
	msgUserCreateFailed    = "Error al crear el usuario"
	msgUserReadBackFailed  = "Error al obtener el usuario creado"
	msgUserListFailed      = "Error al obtener usuarios"
	msgLoginFieldsRequired = "Usuario y contraseña son requeridos"
	msgLoginFailed         = "Error en el login"
	msgLoginBadCredentials = "Credenciales inválidas"
	msgLoginOK             = "Login exitoso"

	msgTooManyRequests = "Demasiadas solicitudes desde esta IP"
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

func newTooManyRequestsError(message string) apiError {
	return newAPIError(http.StatusTooManyRequests, message)
}

func newInternalError(message string) apiError {
	return newAPIError(http.StatusInternalServerError, message)
}
