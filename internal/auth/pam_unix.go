//go:build unix

package auth

/*
#cgo LDFLAGS: -lpam
#include <security/pam_appl.h>
#include <stdlib.h>
#include <string.h>

static int statwalker_pam_conv(int num_msg, const struct pam_message **msg,
                                struct pam_response **resp, void *appdata_ptr) {
	if (num_msg <= 0) {
		return PAM_CONV_ERR;
	}
	struct pam_response *replies = calloc((size_t)num_msg, sizeof(struct pam_response));
	if (replies == NULL) {
		return PAM_BUF_ERR;
	}
	const char *password = (const char *)appdata_ptr;
	for (int i = 0; i < num_msg; i++) {
		switch (msg[i]->msg_style) {
		case PAM_PROMPT_ECHO_OFF:
			replies[i].resp = strdup(password);
			replies[i].resp_retcode = 0;
			break;
		case PAM_PROMPT_ECHO_ON:
		case PAM_ERROR_MSG:
		case PAM_TEXT_INFO:
			replies[i].resp = NULL;
			replies[i].resp_retcode = 0;
			break;
		default:
			free(replies);
			return PAM_CONV_ERR;
		}
	}
	*resp = replies;
	return PAM_SUCCESS;
}

static int statwalker_pam_verify(const char *service, const char *user, const char *password) {
	struct pam_conv conv;
	conv.conv = statwalker_pam_conv;
	conv.appdata_ptr = (void *)password;

	pam_handle_t *pamh = NULL;
	int rc = pam_start(service, user, &conv, &pamh);
	if (rc != PAM_SUCCESS || pamh == NULL) {
		return 0;
	}

	int ok = 0;
	if (pam_authenticate(pamh, 0) == PAM_SUCCESS) {
		ok = pam_acct_mgmt(pamh, 0) == PAM_SUCCESS;
	}
	pam_end(pamh, rc);
	return ok;
}
*/
import "C"

import (
	"os"
	"unsafe"
)

const defaultPAMService = "login"

// verifyCredentials authenticates username/password against the host's
// PAM stack, using the PAM_SERVICE environment variable (default
// "login") and a conversation callback that answers every echo-off
// prompt with password. Account management is consulted after a
// successful authenticate, so locked or expired accounts are rejected.
func verifyCredentials(username, password string) bool {
	service := os.Getenv("PAM_SERVICE")
	if service == "" {
		service = defaultPAMService
	}

	cService := C.CString(service)
	defer C.free(unsafe.Pointer(cService))
	cUser := C.CString(username)
	defer C.free(unsafe.Pointer(cUser))
	cPassword := C.CString(password)
	defer C.free(unsafe.Pointer(cPassword))

	return C.statwalker_pam_verify(cService, cUser, cPassword) != 0
}
