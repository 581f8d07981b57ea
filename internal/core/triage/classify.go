package triage

import (
	"recon-triage/internal/core/probe"
	"recon-triage/internal/platform/urlutil"
)

// SchemeOutcomes correlaciona, por host, qué esquemas respondieron 2xx.
// Se construye en una pasada previa sobre todos los registros para que
// Classify pueda detectar hosts operativos en ambos esquemas sin dejar de
// ser una función pura.
type SchemeOutcomes map[string]schemeOutcome

type schemeOutcome struct {
	httpOK  bool
	httpsOK bool
}

// NewSchemeOutcomes construye el índice vacío.
func NewSchemeOutcomes() SchemeOutcomes {
	return make(SchemeOutcomes)
}

// Observe registra el resultado de un probe en el índice.
func (o SchemeOutcomes) Observe(rec *probe.HostRecord) {
	if rec == nil || !rec.Alive() {
		return
	}
	if rec.StatusCode < 200 || rec.StatusCode > 299 {
		return
	}
	outcome := o[rec.Host]
	switch rec.Scheme {
	case probe.SchemeHTTP:
		outcome.httpOK = true
	case probe.SchemeHTTPS:
		outcome.httpsOK = true
	}
	o[rec.Host] = outcome
}

// BothSchemesOK indica si el host respondió 2xx por HTTP y por HTTPS.
func (o SchemeOutcomes) BothSchemesOK(host string) bool {
	outcome, ok := o[host]
	return ok && outcome.httpOK && outcome.httpsOK
}

// Classify asigna exactamente una categoría a un registro. Es total y
// determinista; el orden de las reglas es parte del contrato:
//  1. error presente o sin status → NoResponse
//  2. 401/403 → AccessBlocked
//  3. >=500 → ServerError
//  4. 301/302/307/308 → Redirecting
//  5. 2xx → FullyOperational si ambos esquemas respondieron 2xx para el
//     host; si no, la categoría del esquema que respondió
//  6. cualquier otro status (1xx, no reconocido) → NoResponse
func Classify(rec *probe.HostRecord, outcomes SchemeOutcomes) Category {
	if rec.Err != "" || !rec.HasStatus {
		return CategoryNoResponse
	}

	status := rec.StatusCode
	switch {
	case status == 401 || status == 403:
		return CategoryAccessBlocked
	case status >= 500:
		return CategoryServerError
	case status == 301 || status == 302 || status == 307 || status == 308:
		return CategoryRedirecting
	case status >= 200 && status <= 299:
		if outcomes.BothSchemesOK(rec.Host) {
			return CategoryFullyOperational
		}
		if workingScheme(rec) == probe.SchemeHTTP {
			return CategoryHTTPOnly
		}
		return CategoryHTTPSOnly
	default:
		return CategoryNoResponse
	}
}

// workingScheme resuelve el esquema de la respuesta que funcionó. Cuando el
// prober no lo indicó, se deduce de la URL final.
func workingScheme(rec *probe.HostRecord) probe.Scheme {
	if rec.Scheme != probe.SchemeUnknown {
		return rec.Scheme
	}
	if s := probe.ParseScheme(urlutil.ExtractScheme(rec.FinalURL)); s != probe.SchemeUnknown {
		return s
	}
	// Sin esquema conocido asumimos HTTPS: httpx prueba https primero.
	return probe.SchemeHTTPS
}
