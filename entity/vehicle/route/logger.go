package route

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "route")
