package cef_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gbytes"
	"github.com/rolegraph/rolegraph/logx"
	. "github.com/rolegraph/rolegraph/logx/cef"
)

type recordingLogger struct {
	errorCallCount int
}

func (l *recordingLogger) WithName(string) logx.Logger       { return l }
func (l *recordingLogger) WithData(...logx.Data) logx.Logger { return l }
func (l *recordingLogger) Debug(string, ...logx.Data)        {}
func (l *recordingLogger) Info(string, ...logx.Data)         {}
func (l *recordingLogger) Error(string, error, ...logx.Data) { l.errorCallCount++ }

var _ = Describe("Logger", func() {
	var (
		logOutput *Buffer
		errLogger *recordingLogger

		logger *Logger

		ctx context.Context
	)

	BeforeEach(func() {
		logOutput = NewBuffer()
		errLogger = &recordingLogger{}

		logger = NewLogger(logOutput, "rolegraph", "unittest", "0.0.1", "hook", 443, errLogger)

		ctx = context.Background()
	})

	Describe("#Log", func() {
		It("logs the event signature, name, and destination", func() {
			logger.Log(ctx, "authz-check", "authorization decision")

			Eventually(logOutput).Should(Say("authz-check"))
			Eventually(logOutput).Should(Say("authorization decision"))
			Eventually(logOutput).Should(Say("dst=hook"))
			Eventually(logOutput).Should(Say("dpt=443"))
		})

		Context("when there are custom extensions", func() {
			It("logs each extension as a labeled cs pair", func() {
				logger.Log(ctx, "authz-check", "authorization decision",
					logx.SecurityData{Key: "userID", Value: "1"},
					logx.SecurityData{Key: "outcome", Value: "allowed"},
				)

				Eventually(logOutput).Should(Say("cs1Label=userID"))
				Eventually(logOutput).Should(Say("cs1=1"))
				Eventually(logOutput).Should(Say("cs2Label=outcome"))
				Eventually(logOutput).Should(Say("cs2=allowed"))

				Expect(errLogger.errorCallCount).To(Equal(0))
			})

			Context("when an extension has no key or no value", func() {
				It("skips it and logs an error once", func() {
					logger.Log(ctx, "authz-check", "authorization decision",
						logx.SecurityData{Value: "no-key"},
						logx.SecurityData{Key: "key", Value: "value"},
					)

					Eventually(logOutput).Should(Say("cs1Label=key"))
					Eventually(logOutput).Should(Say("cs1=value"))

					Expect(errLogger.errorCallCount).To(Equal(1))
				})
			})

			Context("when more than six extensions are provided", func() {
				It("drops the extras and logs an error", func() {
					var args []logx.SecurityData
					for i := 0; i < 7; i++ {
						args = append(args, logx.SecurityData{
							Key:   fmt.Sprintf("key%d", i),
							Value: fmt.Sprintf("value%d", i),
						})
					}

					logger.Log(ctx, "authz-check", "authorization decision", args...)

					Eventually(logOutput).Should(Say("cs6Label=key5"))
					Consistently(logOutput).ShouldNot(Say("cs7"))

					Expect(errLogger.errorCallCount).To(Equal(1))
				})
			})
		})
	})
})
