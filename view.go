package tapable

// optionsView is the Tapper returned by Hook.WithOptions.
type optionsView struct {
	hook     *Hook
	defaults map[string]any
	err      error
}

func newOptionsView(h *Hook, defaults any) *optionsView {
	m, err := optionsMap(defaults)
	return &optionsView{hook: h, defaults: m, err: err}
}

func (v *optionsView) Name() string {
	return v.hook.Name()
}

func (v *optionsView) Tap(opts any, fn SyncFunc) error {
	merged, err := v.merge(KindSync, opts)
	if err != nil {
		return err
	}
	return v.hook.Tap(merged, fn)
}

func (v *optionsView) TapAsync(opts any, fn AsyncFunc) error {
	merged, err := v.merge(KindAsync, opts)
	if err != nil {
		return err
	}
	return v.hook.TapAsync(merged, fn)
}

func (v *optionsView) TapPromise(opts any, fn PromiseFunc) error {
	merged, err := v.merge(KindPromise, opts)
	if err != nil {
		return err
	}
	return v.hook.TapPromise(merged, fn)
}

func (v *optionsView) Intercept(i Interceptor) {
	v.hook.Intercept(i)
}

func (v *optionsView) IsUsed() bool {
	return v.hook.IsUsed()
}

// WithOptions stacks defaults on top of the view's own defaults.
func (v *optionsView) WithOptions(defaults any) Tapper {
	if v.err != nil {
		return v
	}
	m, err := optionsMap(defaults)
	return &optionsView{hook: v.hook, defaults: mergeOptions(v.defaults, m), err: err}
}

func (v *optionsView) merge(kind Kind, opts any) (map[string]any, error) {
	if v.err != nil {
		return nil, &RegistrationError{Hook: v.hook.name, Kind: kind, Err: v.err}
	}
	m, err := optionsMap(opts)
	if err != nil {
		return nil, &RegistrationError{Hook: v.hook.name, Kind: kind, Err: err}
	}
	return mergeOptions(v.defaults, m), nil
}
