package session

import (
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"

	"github.com/luispater/webAutomationUtils/weberr"
)

// attachEventLog mirrors navigation and console activity of the session into
// the structured log so callers can follow what the page is doing without
// instrumenting every call site.
func attachEventLog(s *Session) {
	if chromedp.FromContext(s.browserCtx) == nil {
		return
	}
	logger := log.WithField("session", s.id)
	chromedp.ListenTarget(s.browserCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *page.EventFrameNavigated:
			if e.Frame != nil && e.Frame.ParentID == "" {
				logger.Infof("Navigated to %s", e.Frame.URL)
			}
		case *page.EventJavascriptDialogOpening:
			logger.Infof("Dialog opening (%s): %s", e.Type, e.Message)
		case *runtime.EventExceptionThrown:
			if e.ExceptionDetails != nil {
				logger.Warnf("Page exception: %s", weberr.CleanMessage(e.ExceptionDetails.Error()))
			}
		case *page.EventLoadEventFired:
			logger.Debug("Page load event fired")
		}
	})
}
