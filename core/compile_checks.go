package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ HTTPMetadata = (*HTTPResponseMeta)(nil)
	_ ResponseMeta = (*FileResponseMeta)(nil)

	_ ConfigProvider  = (*CfgxConfigProvider)(nil)
	_ OptionsResolver = GoOptionsResolver{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
