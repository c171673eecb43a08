package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trezcool/protimer/core"
	appfs "github.com/trezcool/protimer/fs"
	logsvc "github.com/trezcool/protimer/services/logger"
)

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(zap.NewNop(), conf)
	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf, logger)
	svc := NewConsoleServiceMock(conf, logger)
	ClearSentMessages()

	svc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: "awe", Address: "awe@test.cd"}},
			Subject:      "Welcome!",
			TemplateName: "welcome",
			TemplateData: map[string]interface{}{"Username": "awe"},
		},
		&core.EmailMessage{Subject: "no recipients", BodyStr: "dropped"},
		&core.EmailMessage{To: []mail.Address{{Address: "empty@test.cd"}}, Subject: "no content"},
	)

	sent := SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Welcome!", sent[0].Subject)
	assert.Contains(t, sent[0].TextContent, "awe")
	assert.Contains(t, sent[0].HTMLContent, "awe")
}
